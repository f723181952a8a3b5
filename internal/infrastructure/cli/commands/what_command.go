package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/domain"
)

// NewWhatCommand creates the command printing the current topics.
func NewWhatCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "what",
		Aliases: []string{"?"},
		Short:   "Print the topics of the current subshell",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if os.Getenv(domain.EnvActive) == "" {
				fmt.Fprintln(out, MsgNoTopic)
				return domain.ExitStatus(domain.ExitUserError)
			}
			fmt.Fprintln(out, os.Getenv(domain.EnvTopics))
			return nil
		},
	}
}
