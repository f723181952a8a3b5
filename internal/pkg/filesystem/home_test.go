package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".be", "config.yaml"), ExpandPath("~/.be/config.yaml"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/a/b", ExpandPath("/a//b/"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestFriendlyPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join("$HOME", ".be", "shell", "be.bash"), FriendlyPath(filepath.Join(home, ".be", "shell", "be.bash")))
	assert.Equal(t, "/etc/profile", FriendlyPath("/etc/profile"))
}
