package launch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
)

// BuildScript renders the startup file for the subshell. Statements appear
// in a fixed order: baseline rc file, cd, inline script lines, init script,
// completion script, aliases. Paths other than the rc file are read from the BE_* variables the
// launcher exports, so the file itself only holds quoted literals.
func BuildScript(d domain.EnvironmentDescriptor, rcFile string) (string, error) {
	lang := syntax.LangPOSIX
	if domain.ParseShellName(d.ShellExecutable).Flavor() == domain.FlavorBash {
		lang = syntax.LangBash
	}

	var b strings.Builder
	b.WriteString("# generated by be, removed when the shell exits\n")

	if rcFile != "" {
		quoted, err := syntax.Quote(rcFile, lang)
		if err != nil {
			return "", fmt.Errorf("%w: rc file %q: %v", domain.ErrConfiguration, rcFile, err)
		}
		fmt.Fprintf(&b, "[ -f %s ] && . %s\n", quoted, quoted)
	}

	if d.Entering() {
		fmt.Fprintf(&b, "cd \"$%s\"\n", domain.EnvDevelopmentDir)
	} else {
		fmt.Fprintf(&b, "cd \"$%s\"\n", domain.EnvCwd)
	}
	parser := syntax.NewParser(syntax.Variant(lang))
	for i, line := range d.InitCommands {
		if _, err := parser.Parse(strings.NewReader(line), ""); err != nil {
			return "", fmt.Errorf("%w: script line %d: %v", domain.ErrConfiguration, i+1, err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if d.InitScript != "" {
		fmt.Fprintf(&b, ". \"$%s\"\n", domain.EnvScript)
	}
	if d.CompletionScript != "" {
		fmt.Fprintf(&b, ". \"$%s\"\n", domain.EnvTabCompletion)
	}

	names := make([]string, 0, len(d.Aliases))
	for name := range d.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !validAliasName(name) {
			return "", fmt.Errorf("%w: invalid alias name %q", domain.ErrConfiguration, name)
		}
		quoted, err := syntax.Quote(d.Aliases[name], lang)
		if err != nil {
			return "", fmt.Errorf("%w: alias %s: %v", domain.ErrConfiguration, name, err)
		}
		fmt.Fprintf(&b, "alias %s=%s\n", name, quoted)
	}
	return b.String(), nil
}

// DefaultRCFile is the baseline configuration sourced for a shell when none
// is configured.
func DefaultRCFile(shell string) string {
	home := filesystem.UserHomeDir()
	if domain.ParseShellName(shell).Flavor() == domain.FlavorBash {
		return filepath.Join(home, ".bashrc")
	}
	return filepath.Join(home, ".shrc")
}

func validAliasName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n=\"'$`\\/;&|<>()")
}
