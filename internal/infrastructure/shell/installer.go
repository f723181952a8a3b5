// Package shell installs the `be` tab-completion hook into the user's shell.
package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/be-go/assets"
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
	"github.com/doeshing/be-go/internal/ports"
)

const headerComment = "# Added by be installer\n"

// Installer writes the completion hook and sources it from the rc file.
// Only bash is supported: the hook relies on COMP_LINE and complete -F.
type Installer struct {
	scriptPath string
	logger     ports.Logger
}

// NewInstaller builds an installer writing the hook to scriptPath
// (~/.be/shell/be.bash when empty).
func NewInstaller(scriptPath string, logger ports.Logger) *Installer {
	if scriptPath == "" {
		scriptPath = filepath.Join(filesystem.BeDir(), "shell", "be.bash")
	}
	return &Installer{scriptPath: scriptPath, logger: logger}
}

// ScriptPath is where the hook is written.
func (i *Installer) ScriptPath() string {
	return i.scriptPath
}

// Install writes the hook and adds the source line to the rc file. force
// rewrites the source line even when it is already present.
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name, rcFile, err := i.target(shell)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(i.scriptPath), domain.DirectoryPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	scriptUpdated := true
	if existing, err := os.ReadFile(i.scriptPath); err == nil && string(existing) == assets.BashCompletion {
		scriptUpdated = false
	} else if err := os.WriteFile(i.scriptPath, []byte(assets.BashCompletion), domain.ScriptPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	rcUpdated, err := ensureRCLine(rcFile, sourceLine(i.scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.logger.Debug("completion hook installed", map[string]interface{}{
		"script":     i.scriptPath,
		"rc_file":    rcFile,
		"rc_updated": rcUpdated,
	})

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    i.scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: scriptUpdated,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes the source line; the hook file stays so `be in`
// subshells keep their completion.
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name, rcFile, err := i.target(shell)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	updated, err := removeRCLine(rcFile, sourceLine(i.scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	return domain.ShellInstallResult{
		Shell:      name,
		ScriptPath: i.scriptPath,
		RCFile:     rcFile,
		RCUpdated:  updated,
	}, nil
}

// Status reports current integration state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	status := domain.ShellStatus{Shell: domain.ParseShellName(i.shellOrDetected(shell)), ScriptPath: i.scriptPath}
	_, rcFile, err := i.target(shell)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.RCFile = rcFile

	if info, err := os.Stat(i.scriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(rcFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), sourceLine(i.scriptPath))
	}
	return status
}

// DetectShell inspects the SHELL env var.
func (i *Installer) DetectShell() string {
	return os.Getenv("SHELL")
}

func (i *Installer) shellOrDetected(shell string) string {
	if shell == "" {
		return i.DetectShell()
	}
	return shell
}

func (i *Installer) target(shell string) (domain.ShellName, string, error) {
	name := domain.ParseShellName(i.shellOrDetected(shell))
	if name != domain.ShellBash {
		return name, "", fmt.Errorf("unsupported shell %q: completion is available for bash only", name)
	}
	return name, filepath.Join(filesystem.UserHomeDir(), ".bashrc"), nil
}

func ensureRCLine(path string, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, os.WriteFile(path, []byte(headerComment+line+"\n"), domain.ScriptPermissions)
	}
	if err != nil {
		return false, err
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}

	kept := dropLines(string(contents), line, headerComment)
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	return true, os.WriteFile(path, []byte(kept+headerComment+line+"\n"), domain.ScriptPermissions)
}

func removeRCLine(path string, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !strings.Contains(string(contents), line) {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(dropLines(string(contents), line, headerComment)), domain.ScriptPermissions)
}

// dropLines removes lines containing line, and the installer header that
// directly precedes them.
func dropLines(contents, line, header string) string {
	lines := strings.Split(contents, "\n")
	kept := make([]string, 0, len(lines))
	for _, existing := range lines {
		if strings.Contains(existing, line) {
			if n := len(kept); n > 0 && kept[n-1]+"\n" == header {
				kept = kept[:n-1]
			}
			continue
		}
		kept = append(kept, existing)
	}
	return strings.Join(kept, "\n")
}

func sourceLine(scriptPath string) string {
	path := filesystem.FriendlyPath(scriptPath)
	return fmt.Sprintf("[ -f \"%s\" ] && . \"%s\"", path, path)
}

var _ ports.ShellIntegrator = (*Installer)(nil)
