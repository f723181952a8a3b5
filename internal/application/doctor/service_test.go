package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type stubRegistry struct{ projects []string }

func (s stubRegistry) Lookup(context.Context, string) (domain.Item, error) {
	return domain.Item{}, domain.ErrUnknownItem
}

func (s stubRegistry) Children(context.Context, string) ([]string, error) { return s.projects, nil }

type stubIntegrator struct{ status domain.ShellStatus }

func (s stubIntegrator) Install(string, bool) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}

func (s stubIntegrator) Uninstall(string) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}

func (s stubIntegrator) Status(string) domain.ShellStatus { return s.status }

func (s stubIntegrator) DetectShell() string { return "bash" }

func checksByName(report domain.HealthReport) map[string]domain.HealthCheck {
	out := map[string]domain.HealthCheck{}
	for _, c := range report.Checks {
		out[c.Name] = c
	}
	return out
}

func TestRunHealthy(t *testing.T) {
	svc := &Service{
		ConfigProvider:  stubConfig{cfg: domain.Config{ConfigFormatVersion: "1", ProjectsRoot: "/projects", Shell: domain.ShellSettings{Executable: "auto", TempDir: t.TempDir()}}},
		ShellIntegrator: stubIntegrator{status: domain.ShellStatus{Shell: domain.ShellBash, ScriptExists: true, LinePresent: true}},
		Registry:        stubRegistry{projects: []string{"nike"}},
		Getenv: func(key string) string {
			if key == "SHELL" {
				return "/bin/zsh"
			}
			return ""
		},
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	checks := checksByName(report)
	assert.Equal(t, domain.HealthOK, checks["Config file"].Status)
	assert.Equal(t, domain.HealthWarn, checks["Shell"].Status)
	assert.Contains(t, checks["Shell"].Details, "/usr/bin/bash")
	assert.Equal(t, domain.HealthOK, checks["Tab completion"].Status)
	assert.Equal(t, domain.HealthOK, checks["Projects"].Status)
	assert.Equal(t, domain.HealthOK, checks["Temp directory"].Status)
	assert.Equal(t, domain.HealthOK, checks["History"].Status)
	assert.NotContains(t, checks, "Session")
}

func TestRunReportsProblems(t *testing.T) {
	svc := &Service{
		ConfigProvider:  stubConfig{cfg: domain.Config{ConfigFormatVersion: "1", Shell: domain.ShellSettings{TempDir: "/does/not/exist"}, History: domain.HistorySettings{Enabled: true}}},
		ShellIntegrator: stubIntegrator{},
		Registry:        stubRegistry{},
		Getenv: func(key string) string {
			switch key {
			case domain.EnvActive:
				return "1"
			case domain.EnvProject:
				return "nike"
			}
			return ""
		},
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	checks := checksByName(report)
	assert.Equal(t, domain.HealthError, checks["Shell"].Status)
	assert.Equal(t, domain.HealthWarn, checks["Tab completion"].Status)
	assert.Equal(t, domain.HealthWarn, checks["Projects"].Status)
	assert.Equal(t, domain.HealthError, checks["Temp directory"].Status)
	assert.Equal(t, domain.HealthWarn, checks["History"].Status)
	assert.Equal(t, domain.HealthWarn, checks["Session"].Status)
}

func TestRunConfigFailure(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{err: domain.ErrConfiguration}}

	report, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}
