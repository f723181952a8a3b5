package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
)

// NewInstallCommand creates the installation command for tab completion
func NewInstallCommand(container *app.Container) *cobra.Command {
	var shellFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install tab completion for `be in`",
		Long: `Install tab completion for "be in".

This command will:
1. Write the completion hook to ~/.be/shell/be.bash
2. Source it from ~/.bashrc

Example:
  be install
  be install --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.ShellIntegrator.Install(shellArg(shellFlag), force)
			if err != nil {
				return fmt.Errorf("install completion: %w", err)
			}
			displayInstallResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", ShellAutoDetect, "Shell to install for (bash). Detected from $SHELL by default")
	cmd.Flags().BoolVar(&force, "force", false, "Rewrite the rc file line even if present")
	return cmd
}

// NewUninstallCommand creates the command removing tab completion
func NewUninstallCommand(container *app.Container) *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove tab completion from the shell rc file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.ShellIntegrator.Uninstall(shellArg(shellFlag))
			if err != nil {
				return fmt.Errorf("uninstall completion: %w", err)
			}
			out := cmd.OutOrStdout()
			if !result.RCUpdated {
				fmt.Fprintf(out, "Nothing to remove from %s\n", filesystem.FriendlyPath(result.RCFile))
				return nil
			}
			fmt.Fprintf(out, "✓ Removed completion from %s\n", filesystem.FriendlyPath(result.RCFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&shellFlag, "shell", ShellAutoDetect, "Shell to uninstall from (bash)")
	return cmd
}

func shellArg(flag string) string {
	if flag == ShellAutoDetect {
		return ""
	}
	return flag
}

func displayInstallResult(out io.Writer, result domain.ShellInstallResult) {
	script := filesystem.FriendlyPath(result.ScriptPath)
	rc := filesystem.FriendlyPath(result.RCFile)

	if result.ScriptUpdated {
		fmt.Fprintf(out, "✓ Wrote completion hook: %s\n", script)
	} else {
		fmt.Fprintf(out, "✓ Completion hook up to date: %s\n", script)
	}
	if !result.RCUpdated {
		fmt.Fprintf(out, "✓ %s already sources the hook\n", rc)
		return
	}
	fmt.Fprintf(out, "✓ Added completion to %s\n", rc)
	fmt.Fprintf(out, "\nTo activate, run:\n  source %s\n", rc)
}
