package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// BeDir is the per-user state directory, ~/.be.
func BeDir() string {
	return filepath.Join(UserHomeDir(), ".be")
}

// ExpandPath expands a leading "~/" and cleans the result. Empty stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// FriendlyPath abbreviates paths under the home directory to $HOME/...
func FriendlyPath(path string) string {
	home := UserHomeDir()
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return filepath.Join("$HOME", strings.TrimPrefix(path, home+string(os.PathSeparator)))
	}
	return path
}
