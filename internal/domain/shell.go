package domain

import (
	"path/filepath"
	"strings"
)

// ShellName enumerates shells be knows about.
type ShellName string

const (
	ShellUnknown ShellName = "unknown"
	ShellBash    ShellName = "bash"
	ShellSh      ShellName = "sh"
	ShellDash    ShellName = "dash"
	ShellKsh     ShellName = "ksh"
	ShellMksh    ShellName = "mksh"
	ShellZsh     ShellName = "zsh"
	ShellFish    ShellName = "fish"
)

// ShellFlavor groups shells by how they accept a startup file.
type ShellFlavor int

const (
	// FlavorUnsupported shells cannot be bootstrapped with a POSIX init file.
	FlavorUnsupported ShellFlavor = iota
	// FlavorBash takes the init file through --rcfile.
	FlavorBash
	// FlavorPOSIX reads the init file named by $ENV when interactive.
	FlavorPOSIX
)

// ParseShellName converts a name or path ("/bin/bash") to a ShellName.
func ParseShellName(value string) ShellName {
	base := strings.ToLower(strings.TrimSpace(filepath.Base(value)))
	base = strings.TrimPrefix(base, "-")
	switch ShellName(base) {
	case ShellBash, ShellSh, ShellDash, ShellKsh, ShellMksh, ShellZsh, ShellFish:
		return ShellName(base)
	default:
		return ShellUnknown
	}
}

// Flavor reports how the shell is bootstrapped.
func (s ShellName) Flavor() ShellFlavor {
	switch s {
	case ShellBash:
		return FlavorBash
	case ShellSh, ShellDash, ShellKsh, ShellMksh:
		return FlavorPOSIX
	default:
		return FlavorUnsupported
	}
}

// ShellCommand is a fully prepared process invocation.
type ShellCommand struct {
	Path string
	Args []string
	Env  []string
	Dir  string
}

// ShellInstallResult describes install/uninstall outcomes.
type ShellInstallResult struct {
	Shell         ShellName
	ScriptPath    string
	RCFile        string
	ScriptUpdated bool
	RCUpdated     bool
}

// ShellStatus captures current integration state.
type ShellStatus struct {
	Shell        ShellName
	ScriptPath   string
	RCFile       string
	ScriptExists bool
	LinePresent  bool
	Error        string
}
