package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/be-go/assets"
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
	"github.com/doeshing/be-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.be/config.yaml (overridable via BE_CONFIG).
type FileLoader struct {
	overridePath string
	getenv       func(string) string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, getenv: os.Getenv}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfiguration, path, err)
		}
		data = assets.DefaultConfigYAML
		if err := writeDefault(path, data); err != nil {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}

	return l.applyOverrides(hydrateDefaults(cfg)), nil
}

// Path returns the configuration file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := l.getenv(domain.EnvConfig); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.BeDir(), "config.yaml")
}

// Save writes cfg to the configuration file.
func (l *FileLoader) Save(cfg domain.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return writeDefault(l.Path(), data)
}

// Reset overwrites the configuration file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := writeDefault(l.Path(), assets.DefaultConfigYAML); err != nil {
		return domain.Config{}, err
	}
	return Default()
}

// Default returns the embedded default configuration.
func Default() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

func writeDefault(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, data, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Shell.Executable == "" {
		cfg.Shell.Executable = "auto"
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendSQLite
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(filesystem.BeDir(), "history.db")
	}
	if cfg.Environment == nil {
		cfg.Environment = map[string]domain.EnvValue{}
	}
	cfg.ProjectsRoot = filesystem.ExpandPath(cfg.ProjectsRoot)
	cfg.Shell.RCFile = filesystem.ExpandPath(cfg.Shell.RCFile)
	cfg.Shell.CompletionScript = filesystem.ExpandPath(cfg.Shell.CompletionScript)
	cfg.Shell.TempDir = filesystem.ExpandPath(cfg.Shell.TempDir)
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	return cfg
}

func (l *FileLoader) applyOverrides(cfg domain.Config) domain.Config {
	if root := l.getenv(domain.EnvProjectsRoot); root != "" {
		cfg.ProjectsRoot = filesystem.ExpandPath(root)
	}
	if dir := l.getenv(domain.EnvTempDir); dir != "" {
		cfg.Shell.TempDir = filesystem.ExpandPath(dir)
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
