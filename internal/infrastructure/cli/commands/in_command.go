package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/domain"
)

type inOptions struct {
	enter bool
	yes   bool
	user  string
}

// NewInCommand creates the command that launches a subshell for an item.
func NewInCommand(container *app.Container) *cobra.Command {
	var opts inOptions

	cmd := &cobra.Command{
		Use:   "in <project> <item> [topic...]",
		Short: "Enter a project item in a new subshell",
		Long: `Enter a project item in a new subshell.

The subshell carries the item's BE_* variables, environment and aliases.
Leave it with "exit"; its exit status becomes the exit status of be.

Example:
  be in hulk bruce animation
  be in hulk/bruce/animation --enter`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIn(cmd, container, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.enter, "enter", "e", false, "Start in the development directory")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Create a missing development directory without asking")
	cmd.Flags().StringVarP(&opts.user, "as", "a", "", "Resolve templates as another user")
	return cmd
}

func runIn(cmd *cobra.Command, container *app.Container, args []string, opts inOptions) error {
	ctx := cmd.Context()
	req := domain.ResolveRequest{
		Item:  domain.JoinItemPath(lo.FlatMap(args, func(arg string, _ int) []string { return domain.SplitItemPath(arg) })),
		Enter: opts.enter,
		User:  opts.user,
	}

	descriptor, err := container.Resolver.ResolveFor(ctx, req)
	var missing *domain.MissingDevelopmentDirectoryError
	switch {
	case errors.As(err, &missing):
		create, err := confirmCreate(cmd, container, opts.yes, missing)
		if err != nil {
			return err
		}
		if !create {
			fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
			return nil
		}
		if err := os.MkdirAll(missing.Path, domain.DirectoryPermissions); err != nil {
			return fmt.Errorf("%w: create %s: %w", domain.ErrResource, missing.Path, err)
		}
	case err != nil:
		return err
	}

	return launch(ctx, container, descriptor)
}

// confirmCreate decides whether a missing development directory is created.
// Without a terminal to ask on, the missing directory is reported as is.
func confirmCreate(cmd *cobra.Command, container *app.Container, yes bool, missing *domain.MissingDevelopmentDirectoryError) (bool, error) {
	if yes {
		return true, nil
	}
	if container.Prompter == nil || !container.Prompter.Enabled() {
		return false, missing
	}
	fmt.Fprintln(cmd.OutOrStdout(), missing.Path)
	return container.Prompter.Confirm(PromptCreateDirectory, true)
}

// launch runs the subshell, records the session and turns a non-zero exit
// status into a domain.ExitStatus.
func launch(ctx context.Context, container *app.Container, descriptor domain.EnvironmentDescriptor) error {
	started := time.Now()
	code, err := container.Launcher.Launch(ctx, descriptor)
	if err != nil {
		return err
	}

	recordSession(container, domain.Session{
		Item:                 descriptor.Item,
		Shell:                descriptor.ShellExecutable,
		DevelopmentDirectory: descriptor.DevelopmentDirectory,
		Entered:              descriptor.Entering(),
		StartedAt:            started.UTC(),
		Duration:             time.Since(started),
		ExitCode:             code,
	})

	if code != 0 {
		return domain.ExitStatus(code)
	}
	return nil
}

func recordSession(container *app.Container, session domain.Session) {
	if !container.Config.History.Enabled {
		return
	}
	if err := container.History().Save(session); err != nil {
		container.Logger.Warn("failed to record session", map[string]interface{}{
			"item":  session.Item,
			"error": err.Error(),
		})
	}
}
