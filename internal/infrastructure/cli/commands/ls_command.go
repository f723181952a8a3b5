package commands

import (
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/domain"
)

// NewLsCommand creates the ls command
func NewLsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [project] [item] [topic...]",
		Short: "List projects, inventory items or template directories",
		Long: `List the contents of a level of the project hierarchy.

Example:
  be ls                   # projects
  be ls hulk              # inventory items and their bindings
  be ls hulk bruce        # directories below the item's template`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(domain.EnvActive) != "" {
				return domain.ErrAlreadyActive
			}
			return runLs(cmd, container, args)
		},
	}
}

func runLs(cmd *cobra.Command, container *app.Container, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	segments := lo.FlatMap(args, func(arg string, _ int) []string { return domain.SplitItemPath(arg) })

	switch len(segments) {
	case 0:
		projects, err := container.Registry.Children(ctx, "")
		if err != nil {
			return err
		}
		for _, name := range projects {
			fmt.Fprintf(out, "- %s (project)\n", name)
		}
	case 1:
		bindings, err := container.Registry.Bindings(ctx, segments[0])
		if err != nil {
			return err
		}
		items := lo.Keys(bindings)
		slices.Sort(items)
		for _, item := range items {
			fmt.Fprintf(out, "- %s (%s)\n", item, bindings[item])
		}
	default:
		children, err := container.Registry.Children(ctx, domain.JoinItemPath(segments))
		if err != nil {
			return err
		}
		for _, name := range children {
			fmt.Fprintf(out, "- %s\n", name)
		}
	}
	return nil
}
