package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Shell:               domain.ShellSettings{Executable: "auto"},
		Environment:         map[string]domain.EnvValue{"STUDIO": {"acme"}},
		History:             domain.HistorySettings{Enabled: true, Backend: domain.HistoryBackendSQLite, Path: "/tmp/h.db"},
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*domain.Config)
		valid  bool
	}{
		"defaults":         {mutate: func(*domain.Config) {}, valid: true},
		"dash":             {mutate: func(c *domain.Config) { c.Shell.Executable = "/bin/dash" }, valid: true},
		"zsh":              {mutate: func(c *domain.Config) { c.Shell.Executable = "/bin/zsh" }},
		"version":          {mutate: func(c *domain.Config) { c.ConfigFormatVersion = "9" }},
		"bad env name":     {mutate: func(c *domain.Config) { c.Environment["MY VAR"] = domain.EnvValue{"x"} }},
		"reserved prefix":  {mutate: func(c *domain.Config) { c.Environment["BE_PROJECT"] = domain.EnvValue{"x"} }},
		"backend":          {mutate: func(c *domain.Config) { c.History.Backend = "redis" }},
		"no history path":  {mutate: func(c *domain.Config) { c.History.Path = "" }},
		"history disabled": {mutate: func(c *domain.Config) { c.History = domain.HistorySettings{} }, valid: true},
		"temp dir missing": {mutate: func(c *domain.Config) { c.Shell.TempDir = "/does/not/exist" }},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

type stubProvider struct{ cfg domain.Config }

func (s stubProvider) Load(context.Context) (domain.Config, error) { return s.cfg, nil }

func TestValidatingProvider(t *testing.T) {
	cfg, err := ValidatingProvider{Provider: stubProvider{cfg: validConfig()}}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.ConfigFormatVersion)

	broken := validConfig()
	broken.Shell.Executable = "fish"
	_, err = ValidatingProvider{Provider: stubProvider{cfg: broken}}.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
