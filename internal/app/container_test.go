package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
)

func TestBuildContainerUsesProjectsRoot(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(domain.EnvConfig, "")
	t.Setenv(domain.EnvTempDir, "")
	t.Setenv(domain.EnvActive, "")
	t.Setenv(domain.EnvProjectsRoot, root)

	c, err := BuildContainer(context.Background(), false)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.ConfigErr)
	assert.Equal(t, root, c.Registry.Root())
	assert.FileExists(t, filepath.Join(home, ".be", "config.yaml"))
	assert.NotNil(t, c.Resolver.Registry)
}

func TestBuildContainerToleratesBrokenConfig(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	cfgPath := filepath.Join(home, "broken.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("shell: [unterminated"), 0o600))
	t.Setenv("HOME", home)
	t.Setenv(domain.EnvConfig, cfgPath)
	t.Setenv(domain.EnvTempDir, "")
	t.Setenv(domain.EnvActive, "")
	t.Setenv(domain.EnvProjectsRoot, root)

	c, err := BuildContainer(context.Background(), false)
	require.NoError(t, err)
	defer c.Close()

	require.ErrorIs(t, c.ConfigErr, domain.ErrConfiguration)
	assert.Equal(t, root, c.Registry.Root())

	_, err = c.Resolver.Resolve(context.Background(), "any/thing", false)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
