package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func stubVars(t *testing.T, v, commit, date string) {
	t.Helper()
	ov, oc, od := Version, Commit, BuildDate
	Version, Commit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, Commit, BuildDate = ov, oc, od })
}

func TestGetFillsFromBuildInfo(t *testing.T) {
	stubVars(t, "dev", "", "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	assert.Equal(t, "v1.4.0", info.Version)
	assert.Equal(t, "0123456789abcdef0123", info.Commit)
	assert.Equal(t, "0123456789ab", info.ShortCommit())
	assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildDate)
	assert.True(t, info.Modified)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestGetPrefersLinkerValues(t *testing.T) {
	stubVars(t, "1.2.3", "abc", "yesterday")
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	})

	info := Get()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc", info.ShortCommit())
	assert.Equal(t, "yesterday", info.BuildDate)
	assert.False(t, info.Modified)
}

func TestGetWithoutBuildInfo(t *testing.T) {
	stubVars(t, "dev", "", "")
	stubBuildInfo(t, nil)

	info := Get()
	assert.Equal(t, "dev", info.Version)
	assert.Empty(t, info.Commit)
}
