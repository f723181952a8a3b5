package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/domain"
)

// NewMkdirCommand creates the mkdir command
func NewMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir [dir]",
		Short: "Create the development directory of the current subshell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := os.Getenv(domain.EnvDevelopmentDir)
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("%w: no directory given and %s is not set", domain.ErrNotActive, domain.EnvDevelopmentDir)
			}
			if _, err := os.Stat(dir); err == nil {
				return nil
			}
			if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
				return fmt.Errorf("%w: create %s: %w", domain.ErrResource, dir, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", dir)
			return nil
		},
	}
}
