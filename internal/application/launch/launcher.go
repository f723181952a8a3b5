// Package launch starts the interactive subshell for a resolved environment.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/logger"
	"github.com/doeshing/be-go/internal/ports"
)

// ownedVariables are replaced on every launch so values from an enclosing
// be session never leak into the child.
var ownedVariables = []string{
	domain.EnvEnter,
	domain.EnvDevelopmentDir,
	domain.EnvCwd,
	domain.EnvScript,
	domain.EnvTabCompletion,
	domain.EnvShell,
	domain.EnvActive,
	domain.EnvProject,
	domain.EnvProjectRoot,
	domain.EnvProjectsRoot,
	domain.EnvTopics,
	domain.EnvEnvironment,
	domain.EnvTempDir,
	domain.EnvUser,
	domain.EnvBinding,
}

// Launcher writes the init file, runs the shell and removes the file again.
type Launcher struct {
	Runner ports.ProcessRunner
	Logger ports.Logger

	// TempDir holds the init file; empty means os.TempDir().
	TempDir string
	// RCFile is sourced first; empty means DefaultRCFile for the shell.
	RCFile string
	// Environ snapshots the parent environment. Defaults to os.Environ.
	Environ func() []string
	// BeforeCleanup, when set, sees the init file just before it is removed.
	BeforeCleanup func(path string)
}

// New builds a launcher.
func New(runner ports.ProcessRunner, logger ports.Logger, tempDir, rcFile string) *Launcher {
	return &Launcher{
		Runner:  runner,
		Logger:  logger,
		TempDir: tempDir,
		RCFile:  rcFile,
		Environ: os.Environ,
	}
}

// Launch implements ports.SubshellLauncher. A non-zero exit status of the
// shell is returned as the int, errors are reserved for failures of be itself.
func (l *Launcher) Launch(ctx context.Context, descriptor domain.EnvironmentDescriptor) (int, error) {
	d := descriptor.Clone()
	if d.ShellExecutable == "" {
		return 0, fmt.Errorf("%w: no shell executable", domain.ErrConfiguration)
	}

	rcFile := l.RCFile
	if rcFile == "" {
		rcFile = DefaultRCFile(d.ShellExecutable)
	}
	script, err := BuildScript(d, rcFile)
	if err != nil {
		return 0, err
	}

	// Signals are held from before the init file exists until it is removed.
	held := ctx
	if guard, ok := l.Runner.(ports.SignalGuard); ok {
		var release func()
		held, release = guard.HoldSignals(ctx)
		defer release()
	}

	file, err := os.CreateTemp(l.tempDir(), domain.TempFilePattern)
	if err != nil {
		return 0, fmt.Errorf("%w: create init file: %v", domain.ErrResource, err)
	}
	path := file.Name()
	defer l.cleanup(path)

	if _, err := file.WriteString(script); err != nil {
		_ = file.Close()
		return 0, fmt.Errorf("%w: write init file: %v", domain.ErrResource, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("%w: close init file: %v", domain.ErrResource, err)
	}

	if held.Err() != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrLaunch, context.Cause(held))
	}

	cmd := l.command(d, path)
	l.log().Debug("launching subshell", map[string]interface{}{
		"shell":   cmd.Path,
		"args":    cmd.Args,
		"dir":     cmd.Dir,
		"init":    path,
		"item":    d.Item,
		"entered": d.Entering(),
	})

	code, err := l.Runner.Run(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrLaunch, err)
	}
	return code, nil
}

func (l *Launcher) command(d domain.EnvironmentDescriptor, initFile string) domain.ShellCommand {
	env := l.childEnvironment(d)
	args := []string{d.ShellExecutable}

	if domain.ParseShellName(d.ShellExecutable).Flavor() == domain.FlavorBash {
		args = append(args, "--rcfile", initFile, "-i")
	} else {
		args = append(args, "-i")
		env = append(env, "ENV="+initFile)
	}

	return domain.ShellCommand{
		Path: d.ShellExecutable,
		Args: args,
		Env:  env,
		Dir:  d.StartDirectory(),
	}
}

// childEnvironment overlays the descriptor on a copy of the parent environment.
func (l *Launcher) childEnvironment(d domain.EnvironmentDescriptor) []string {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	vars := make(map[string]string)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	for _, name := range ownedVariables {
		delete(vars, name)
	}
	delete(vars, "ENV")

	maps.Copy(vars, d.ExtraEnvironment)

	set := func(name, value string) {
		if value != "" {
			vars[name] = value
		}
	}
	if d.Entering() {
		set(domain.EnvEnter, "1")
	}
	set(domain.EnvDevelopmentDir, d.DevelopmentDirectory)
	set(domain.EnvCwd, d.CurrentDirectory)
	set(domain.EnvScript, d.InitScript)
	set(domain.EnvTabCompletion, d.CompletionScript)
	set(domain.EnvShell, d.ShellExecutable)
	set(domain.EnvProject, d.Project)
	set(domain.EnvProjectRoot, d.ProjectDirectory)
	set(domain.EnvProjectsRoot, d.ProjectsRoot)
	set(domain.EnvTopics, strings.Join(d.Topics, " "))
	set(domain.EnvEnvironment, strings.Join(d.Custom, " "))
	set(domain.EnvUser, d.User)
	set(domain.EnvBinding, d.Binding)
	set(domain.EnvTempDir, l.tempDir())
	if d.Item != "" {
		vars[domain.EnvActive] = "1"
	}

	env := make([]string, 0, len(vars)+1)
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		env = append(env, name+"="+vars[name])
	}
	return env
}

func (l *Launcher) tempDir() string {
	if l.TempDir == "" {
		return os.TempDir()
	}
	return l.TempDir
}

func (l *Launcher) cleanup(path string) {
	if l.BeforeCleanup != nil {
		l.BeforeCleanup(path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		l.log().Warn("failed to remove init file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func (l *Launcher) log() ports.Logger {
	if l.Logger == nil {
		return logger.NewNop()
	}
	return l.Logger
}

var _ ports.SubshellLauncher = (*Launcher)(nil)
