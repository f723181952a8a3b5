package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/application/complete"
)

// NewTabCommand creates the hidden command called by the completion hook:
//
//	be tab <command line...> <complete>
//
// It prints candidates separated by spaces and never fails, so a broken
// project cannot break the user's shell.
func NewTabCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:                "tab",
		Short:              "Print tab completion candidates",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := container.Completer.Complete(cmd.Context(), complete.ParseArgs(args))
			if err != nil {
				container.Logger.Debug("completion failed", map[string]interface{}{"error": err.Error()})
				return nil
			}
			if err := complete.Write(cmd.OutOrStdout(), candidates); err != nil {
				container.Logger.Debug("write completion", map[string]interface{}{"error": err.Error()})
			}
			return nil
		},
	}
}
