package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/version"
)

// NewVersionCommand prints build metadata and where this binary looks for
// its configuration and projects.
func NewVersionCommand(container *app.Container) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show be version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return nil
			}
			printVersion(cmd.OutOrStdout(), info, container)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print the version number only")
	return cmd
}

func printVersion(out io.Writer, info version.Info, container *app.Container) {
	fmt.Fprintf(out, "be %s\n", info.Version)
	if info.Commit != "" {
		commit := info.ShortCommit()
		if info.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "  commit:        %s\n", commit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "  built:         %s\n", info.BuildDate)
	}
	fmt.Fprintf(out, "  go:            %s %s\n", info.GoVersion, info.Platform)

	if container == nil {
		return
	}
	fmt.Fprintf(out, "  config:        %s\n", container.ConfigLoader.Path())
	fmt.Fprintf(out, "  projects root: %s\n", container.Registry.Root())
	if container.Config.History.Enabled {
		fmt.Fprintf(out, "  history:       %s\n", container.Config.History.Backend)
	}
}
