package domain

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnvValueAcceptsScalarAndList(t *testing.T) {
	var env map[string]EnvValue
	raw := "PYTHONPATH:\n  - /a\n  - /b\nMODE: release\nVERSION: 2\n"
	require.NoError(t, yaml.Unmarshal([]byte(raw), &env))

	sep := string(os.PathListSeparator)
	assert.Equal(t, "/a"+sep+"/b", env["PYTHONPATH"].String())
	assert.Equal(t, "release", env["MODE"].String())
	assert.Equal(t, "2", env["VERSION"].String())
}

func TestEnvValueRejectsMappings(t *testing.T) {
	var env map[string]EnvValue
	err := yaml.Unmarshal([]byte("BAD:\n  nested: value\n"), &env)
	assert.Error(t, err)
}
