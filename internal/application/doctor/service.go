// Package doctor diagnoses a be installation.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
	"github.com/doeshing/be-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ShellIntegrator ports.ShellIntegrator
	Registry        ports.Registry
	History         ports.SessionRepository

	Getenv   func(string) string
	LookPath func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.shellCheck(cfg))

	if s.ShellIntegrator != nil {
		status := s.ShellIntegrator.Status("")
		switch {
		case status.ScriptExists && status.LinePresent:
			checks = append(checks, ok("Tab completion", fmt.Sprintf("%s ready", status.Shell)))
		case status.Error != "":
			checks = append(checks, warn("Tab completion", status.Error))
		default:
			checks = append(checks, warn("Tab completion", "not installed, run `be install`"))
		}
	}

	if s.Registry != nil {
		projects, err := s.Registry.Children(ctx, "")
		switch {
		case err != nil:
			checks = append(checks, fail("Projects", err.Error()))
		case len(projects) == 0:
			checks = append(checks, warn("Projects", fmt.Sprintf("none found under %s", rootOf(cfg))))
		default:
			checks = append(checks, ok("Projects", fmt.Sprintf("%d under %s", len(projects), filesystem.FriendlyPath(rootOf(cfg)))))
		}
	}

	checks = append(checks, tempDirCheck(cfg.Shell.TempDir))

	switch {
	case !cfg.History.Enabled:
		checks = append(checks, ok("History", "disabled"))
	case s.History == nil:
		checks = append(checks, warn("History", "store not initialized"))
	default:
		if _, err := s.History.Records(1); err != nil {
			checks = append(checks, warn("History", err.Error()))
		} else {
			checks = append(checks, ok("History", filesystem.FriendlyPath(s.History.Path())))
		}
	}

	if project := s.getenv(domain.EnvProject); s.getenv(domain.EnvActive) != "" {
		checks = append(checks, warn("Session", fmt.Sprintf("running inside be session for %q", project)))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) shellCheck(cfg domain.Config) domain.HealthCheck {
	shell := cfg.Shell.Executable
	if shell == "" || shell == "auto" {
		shell = s.getenv("SHELL")
	}
	if shell == "" {
		shell = string(domain.ShellBash)
	}
	note := ""
	if domain.ParseShellName(shell).Flavor() == domain.FlavorUnsupported {
		note = fmt.Sprintf(" (%s unsupported, using bash)", shell)
		shell = string(domain.ShellBash)
	}

	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(shell)
	if err != nil {
		return fail("Shell", fmt.Sprintf("%s not found: %v", shell, err))
	}
	if note != "" {
		return warn("Shell", path+note)
	}
	return ok("Shell", path)
}

func tempDirCheck(dir string) domain.HealthCheck {
	f, err := os.CreateTemp(dir, domain.TempFilePattern)
	if err != nil {
		return fail("Temp directory", err.Error())
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	if dir == "" {
		dir = os.TempDir()
	}
	return ok("Temp directory", dir+" writable")
}

func rootOf(cfg domain.Config) string {
	if cfg.ProjectsRoot != "" {
		return cfg.ProjectsRoot
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func (s *Service) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
