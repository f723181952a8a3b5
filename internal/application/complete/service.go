// Package complete answers `be tab` queries from the shell completion hook.
package complete

import (
	"context"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

// Service implements ports.CompletionHandler on top of a registry.
type Service struct {
	Registry ports.Registry
	Logger   ports.Logger
}

// NewService builds a completion handler.
func NewService(registry ports.Registry, log ports.Logger) *Service {
	return &Service{Registry: registry, Logger: log}
}

// Complete returns the candidates for the word under the cursor. It never
// fails: anything it cannot answer yields no candidates.
func (s *Service) Complete(ctx context.Context, query domain.CompletionQuery) ([]string, error) {
	tokens := strings.Fields(query.RawCommandLine)
	if len(tokens) < 2 || tokens[1] != domain.EnterKeyword {
		return []string{}, nil
	}

	topics := lo.Filter(tokens[2:], func(token string, _ int) bool {
		return !strings.HasPrefix(token, "-")
	})

	// Git Bash repeats the partial word when the line is re-read.
	if !query.CursorTokenComplete && len(topics) >= 2 && topics[len(topics)-1] == topics[len(topics)-2] {
		topics = topics[:len(topics)-1]
	}

	var parent []string
	var prefix, lead string
	if query.CursorTokenComplete {
		parent = domain.SplitItemPath(strings.Join(topics, "/"))
	} else {
		if len(topics) == 0 {
			return []string{}, nil
		}
		current := topics[len(topics)-1]
		parent = domain.SplitItemPath(strings.Join(topics[:len(topics)-1], "/"))
		if i := strings.LastIndex(current, "/"); i >= 0 {
			lead = current[:i+1]
			parent = append(parent, domain.SplitItemPath(lead)...)
			prefix = current[i+1:]
		} else {
			prefix = current
		}
	}

	children, err := s.Registry.Children(ctx, domain.JoinItemPath(parent))
	if err != nil {
		s.log().Debug("completion lookup failed", map[string]interface{}{
			"path":  domain.JoinItemPath(parent),
			"error": err.Error(),
		})
		return []string{}, nil
	}

	candidates := lo.Filter(children, func(name string, _ int) bool {
		if !strings.HasPrefix(name, prefix) {
			return false
		}
		if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			s.log().Debug("skipping candidate with whitespace", map[string]interface{}{"name": name})
			return false
		}
		return true
	})
	candidates = lo.Uniq(candidates)
	if lead != "" {
		candidates = lo.Map(candidates, func(name string, _ int) string { return lead + name })
	}
	return candidates, nil
}

// Write prints candidates on a single line, separated by spaces, without a
// trailing newline.
func Write(w io.Writer, candidates []string) error {
	_, err := io.WriteString(w, strings.Join(candidates, " "))
	return err
}

// ParseArgs turns `be tab` arguments into a query. The final argument is the
// "word is complete" flag when it parses as a boolean.
func ParseArgs(args []string) domain.CompletionQuery {
	if len(args) == 0 {
		return domain.CompletionQuery{}
	}
	if flag, err := strconv.ParseBool(args[len(args)-1]); err == nil {
		return domain.CompletionQuery{
			RawCommandLine:      strings.Join(args[:len(args)-1], " "),
			CursorTokenComplete: flag,
		}
	}
	return domain.CompletionQuery{RawCommandLine: strings.Join(args, " ")}
}

func (s *Service) log() ports.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}
	return s.Logger
}

var _ ports.CompletionHandler = (*Service)(nil)
