package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
)

// NewActivateCommand creates the command that starts a subshell with tab
// completion of `be in` enabled but no item entered.
func NewActivateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Start a subshell with tab completion enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descriptor, err := container.Resolver.Activate(cmd.Context())
			if err != nil {
				return err
			}
			return launch(cmd.Context(), container, descriptor)
		},
	}
}
