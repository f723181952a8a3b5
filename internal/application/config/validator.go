// Package config validates ~/.be/config.yaml.
package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/ports"
)

var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	switch cfg.ConfigFormatVersion {
	case "", "1":
	default:
		return fmt.Errorf("%w: config_format_version %q not supported", domain.ErrConfiguration, cfg.ConfigFormatVersion)
	}
	if err := validateShell(cfg.Shell); err != nil {
		return err
	}
	if err := validateEnvironment(cfg.Environment); err != nil {
		return err
	}
	return validateHistory(cfg.History)
}

func validateShell(shell domain.ShellSettings) error {
	exe := strings.TrimSpace(shell.Executable)
	if exe != "" && exe != "auto" && domain.ParseShellName(exe).Flavor() == domain.FlavorUnsupported {
		return fmt.Errorf("%w: shell.executable %q cannot read a POSIX init file, use bash, sh, dash, ksh or mksh", domain.ErrConfiguration, exe)
	}
	if shell.TempDir != "" {
		info, err := os.Stat(shell.TempDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: shell.temp_dir %s is not a directory", domain.ErrConfiguration, shell.TempDir)
		}
	}
	return nil
}

func validateEnvironment(env map[string]domain.EnvValue) error {
	for name := range env {
		if !variableName.MatchString(name) {
			return fmt.Errorf("%w: environment name %q is not a valid variable name", domain.ErrConfiguration, name)
		}
		if strings.HasPrefix(name, domain.EnvPrefix) {
			return fmt.Errorf("%w: environment name %s uses the reserved %s prefix", domain.ErrConfiguration, name, domain.EnvPrefix)
		}
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch history.Backend {
	case "", domain.HistoryBackendSQLite, domain.HistoryBackendJSONL:
	default:
		return fmt.Errorf("%w: history.backend must be %s|%s, got %s", domain.ErrConfiguration, domain.HistoryBackendSQLite, domain.HistoryBackendJSONL, history.Backend)
	}
	if history.Enabled && history.Path == "" {
		return fmt.Errorf("%w: history.path must be set when history is enabled", domain.ErrConfiguration)
	}
	return nil
}

// ValidatingProvider rejects configurations that fail Validate.
type ValidatingProvider struct {
	Provider ports.ConfigProvider
}

// Load implements ports.ConfigProvider.
func (p ValidatingProvider) Load(ctx context.Context) (domain.Config, error) {
	cfg, err := p.Provider.Load(ctx)
	if err != nil {
		return domain.Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

var _ ports.ConfigProvider = ValidatingProvider{}
