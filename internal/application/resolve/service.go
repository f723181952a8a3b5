// Package resolve turns item identifiers into launchable environments.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

var aliasNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.:+@%-]+$`)

// Service implements ports.EnvironmentResolver. Everything it reads from the
// host goes through the function fields so results are reproducible in tests.
type Service struct {
	Registry ports.Registry
	Config   ports.ConfigProvider
	Logger   ports.Logger

	Environ  func() []string
	Stat     func(string) (fs.FileInfo, error)
	LookPath func(string) (string, error)
	Getwd    func() (string, error)
	Username func() string
}

// NewService wires a resolver against the host environment.
func NewService(registry ports.Registry, config ports.ConfigProvider, log ports.Logger) *Service {
	return &Service{
		Registry: registry,
		Config:   config,
		Logger:   log,
		Environ:  os.Environ,
		Stat:     os.Stat,
		LookPath: exec.LookPath,
		Getwd:    os.Getwd,
		Username: currentUser,
	}
}

// Resolve implements ports.EnvironmentResolver.
func (s *Service) Resolve(ctx context.Context, item string, enter bool) (domain.EnvironmentDescriptor, error) {
	return s.ResolveFor(ctx, domain.ResolveRequest{Item: item, Enter: enter})
}

// ResolveFor resolves an item. When the development directory is missing in
// enter mode the complete descriptor is returned together with a
// *domain.MissingDevelopmentDirectoryError so the caller can create it.
func (s *Service) ResolveFor(ctx context.Context, req domain.ResolveRequest) (domain.EnvironmentDescriptor, error) {
	base := environMap(s.Environ())
	if base[domain.EnvActive] != "" {
		return domain.EnvironmentDescriptor{}, domain.ErrAlreadyActive
	}

	d, cfg, err := s.baseDescriptor(ctx, base)
	if err != nil {
		return domain.EnvironmentDescriptor{}, err
	}

	item, err := s.Registry.Lookup(ctx, req.Item)
	if err != nil {
		return domain.EnvironmentDescriptor{}, err
	}

	d.User = req.User
	if d.User == "" {
		d.User = s.Username()
	}
	d.Item = item.Path
	d.Project = item.Project
	d.ProjectDirectory = item.ProjectDirectory
	d.Binding = item.Binding
	d.Topics = slices.Clone(item.Topics)
	d.EnterDevelopmentDir = req.Enter
	if item.Root != "" {
		d.ProjectsRoot = item.Root
	}

	fields := s.fields(d, item, base)
	if d.DevelopmentDirectory, err = developmentDirectory(item, fields); err != nil {
		return domain.EnvironmentDescriptor{}, err
	}
	fields["developmentdir"] = d.DevelopmentDirectory

	// $VAR references see the parent environment, the BE_ context exported
	// to the subshell, redirected variables and earlier layers, in that order.
	scope := maps.Clone(base)
	maps.Copy(scope, sessionVariables(d, item, cfg))
	redirected := map[string]string{}
	if err := redirect(item.Redirect, d.Topics, scope, redirected); err != nil {
		return domain.EnvironmentDescriptor{}, err
	}
	extra := map[string]string{}
	for _, layer := range []map[string]domain.EnvValue{cfg.Environment, item.Environment} {
		if err := expandLayer(layer, d.Topics, fields, scope, extra); err != nil {
			return domain.EnvironmentDescriptor{}, err
		}
	}
	d.Custom = sortedKeys(extra)
	d.ExtraEnvironment = redirected
	maps.Copy(d.ExtraEnvironment, extra)

	if item.InitScript != "" {
		if _, err := s.Stat(item.InitScript); err != nil {
			return domain.EnvironmentDescriptor{}, fmt.Errorf("%w: init script %s: %v", domain.ErrConfiguration, item.InitScript, err)
		}
		d.InitScript = item.InitScript
	}
	d.InitCommands = slices.Clone(item.InitCommands)

	for name := range item.Aliases {
		if !aliasNamePattern.MatchString(name) {
			return domain.EnvironmentDescriptor{}, fmt.Errorf("%w: invalid alias name %q", domain.ErrConfiguration, name)
		}
	}
	if len(item.Aliases) > 0 {
		d.Aliases = maps.Clone(item.Aliases)
	}

	s.log().Debug("resolved environment", map[string]interface{}{
		"item":            d.Item,
		"development_dir": d.DevelopmentDirectory,
		"shell":           d.ShellExecutable,
		"custom":          d.Custom,
	})

	if req.Enter {
		if _, err := s.Stat(d.DevelopmentDirectory); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return d, &domain.MissingDevelopmentDirectoryError{Path: d.DevelopmentDirectory}
			}
			return domain.EnvironmentDescriptor{}, fmt.Errorf("%w: %v", domain.ErrResource, err)
		}
	}
	return d, nil
}

// Activate resolves the environment of `be activate`: a plain subshell with
// tab completion and no item.
func (s *Service) Activate(ctx context.Context) (domain.EnvironmentDescriptor, error) {
	d, _, err := s.baseDescriptor(ctx, environMap(s.Environ()))
	return d, err
}

func (s *Service) baseDescriptor(ctx context.Context, env map[string]string) (domain.EnvironmentDescriptor, domain.Config, error) {
	cfg, err := s.Config.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrConfiguration) {
			err = fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		return domain.EnvironmentDescriptor{}, domain.Config{}, err
	}

	shell, err := s.shell(cfg, env)
	if err != nil {
		return domain.EnvironmentDescriptor{}, domain.Config{}, err
	}

	cwd, err := s.Getwd()
	if err != nil {
		return domain.EnvironmentDescriptor{}, domain.Config{}, fmt.Errorf("%w: working directory: %v", domain.ErrResource, err)
	}

	d := domain.EnvironmentDescriptor{
		CurrentDirectory: cwd,
		ProjectsRoot:     cfg.ProjectsRoot,
		ShellExecutable:  shell,
	}
	if d.ProjectsRoot == "" {
		d.ProjectsRoot = cwd
	}
	if script := cfg.Shell.CompletionScript; script != "" {
		if _, err := s.Stat(script); err == nil {
			d.CompletionScript = script
		}
	}
	return d, cfg, nil
}

// shell picks the configured shell, then $SHELL, then bash. Shells that
// cannot read a POSIX init file are replaced by bash.
func (s *Service) shell(cfg domain.Config, env map[string]string) (string, error) {
	candidate := strings.TrimSpace(cfg.Shell.Executable)
	if candidate == "" || candidate == "auto" {
		candidate = env["SHELL"]
	}
	if candidate == "" {
		candidate = string(domain.ShellBash)
	}
	if name := domain.ParseShellName(candidate); name.Flavor() == domain.FlavorUnsupported {
		s.log().Warn("shell not supported, using bash", map[string]interface{}{"shell": candidate})
		candidate = string(domain.ShellBash)
	}

	path, err := s.LookPath(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: shell %q: %v", domain.ErrConfiguration, candidate, err)
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path, nil
}

// fields are the named placeholders available to templates and environment
// values: lowercase BE_ variables plus the item context.
func (s *Service) fields(d domain.EnvironmentDescriptor, item domain.Item, env map[string]string) map[string]string {
	fields := map[string]string{}
	for k, v := range env {
		if name, ok := strings.CutPrefix(k, domain.EnvPrefix); ok && name != "" {
			fields[strings.ToLower(name)] = v
		}
	}

	fields["root"] = d.ProjectsRoot
	fields["projectsroot"] = d.ProjectsRoot
	fields["cwd"] = d.CurrentDirectory
	fields["project"] = d.Project
	fields["projectroot"] = d.ProjectDirectory
	fields["binding"] = d.Binding
	fields["user"] = d.User
	fields["item"] = item.Name
	fields["topics"] = strings.Join(d.Topics, " ")
	if len(d.Topics) > 2 {
		fields["task"] = d.Topics[len(d.Topics)-1]
		fields["type"] = fields["task"]
	}
	return fields
}

// sessionVariables is the BE_ part of the subshell environment known after lookup.
func sessionVariables(d domain.EnvironmentDescriptor, item domain.Item, cfg domain.Config) map[string]string {
	tempDir := cfg.Shell.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	vars := map[string]string{
		domain.EnvProject:        d.Project,
		domain.EnvProjectRoot:    d.ProjectDirectory,
		domain.EnvProjectsRoot:   d.ProjectsRoot,
		domain.EnvTopics:         strings.Join(d.Topics, " "),
		domain.EnvUser:           d.User,
		domain.EnvBinding:        d.Binding,
		domain.EnvDevelopmentDir: d.DevelopmentDirectory,
		domain.EnvCwd:            d.CurrentDirectory,
		domain.EnvShell:          d.ShellExecutable,
		domain.EnvTempDir:        tempDir,
	}
	if item.InitScript != "" {
		vars[domain.EnvScript] = item.InitScript
	}
	return vars
}

func developmentDirectory(item domain.Item, fields map[string]string) (string, error) {
	if item.Template == "" {
		return "", nil
	}
	dir, err := domain.FormatTemplate(item.Template, item.Topics, fields)
	if err != nil {
		return "", err
	}
	dir = filepath.FromSlash(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(item.Root, dir)
	}
	return filepath.Clean(dir), nil
}

// expandLayer resolves one layer of environment values into extra. $VAR
// references see the base environment and every earlier value; {field}
// references see topics and fields.
func expandLayer(layer map[string]domain.EnvValue, topics []string, fields, scope, extra map[string]string) error {
	for _, name := range sortedKeys(layer) {
		raw := layer[name].String()

		var missing string
		value := os.Expand(raw, func(ref string) string {
			if v, ok := scope[ref]; ok {
				return v
			}
			if missing == "" {
				missing = ref
			}
			return ""
		})
		if missing != "" {
			return fmt.Errorf("%w: %s references unavailable variable $%s", domain.ErrTemplate, name, missing)
		}

		value, err := domain.FormatTemplate(value, topics, fields)
		if err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
		scope[name] = value
		extra[name] = value
	}
	return nil
}

// redirect copies topics ("{1}") or existing variables into new variables.
func redirect(mapping map[string]string, topics []string, scope, extra map[string]string) error {
	for _, source := range sortedKeys(mapping) {
		dest := mapping[source]
		var value string
		if idx, err := domain.TopicIndex(source); err == nil {
			if idx >= len(topics) {
				return &domain.TemplateFieldError{Field: strconv.Itoa(idx), Pattern: source}
			}
			value = topics[idx]
		} else if v, ok := scope[source]; ok {
			value = v
		} else {
			return fmt.Errorf("%w: redirect source %q is not available", domain.ErrTemplate, source)
		}
		scope[dest] = value
		extra[dest] = value
	}
	return nil
}

func (s *Service) log() ports.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}
	return s.Logger
}

func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if name, value, ok := strings.Cut(kv, "="); ok && name != "" {
			env[name] = value
		}
	}
	return env
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func currentUser() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

var _ ports.EnvironmentResolver = (*Service)(nil)
