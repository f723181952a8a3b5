package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, *app.Container, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	container.Prompter = NewPrompter(nil, nil)

	root := &cobra.Command{
		Use:   "be",
		Short: "Minimal directory and environment management",
		Long: `be launches a subshell for a project item, with its development
directory, environment variables and aliases in place.

  $ be in nike shot1 animation --enter`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(
		commands.NewInCommand(container),
		commands.NewTabCommand(container),
		commands.NewLsCommand(container),
		commands.NewDumpCommand(container),
		commands.NewWhatCommand(),
		commands.NewMkdirCommand(),
		commands.NewActivateCommand(container),
		commands.NewInstallCommand(container),
		commands.NewUninstallCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewConfigCommand(container),
		commands.NewVersionCommand(container),
	)
	return root, container, nil
}
