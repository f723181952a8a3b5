package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/be-go/internal/app"
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/pkg/filesystem"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded subshell sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, time.Now())
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit, time.Now())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !container.Config.History.Enabled {
				return errors.New(ErrHistoryDisabled)
			}
			store := container.History()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", filesystem.FriendlyPath(store.Path()))
			return nil
		},
	}
}

// listHistoryEntries lists recent sessions, newest first
func listHistoryEntries(out io.Writer, container *app.Container, limit int, now time.Time) error {
	if !container.Config.History.Enabled {
		return errors.New(ErrHistoryDisabled)
	}

	records, err := container.History().Records(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	displayHistory(out, records, now)
	return nil
}

func displayHistory(out io.Writer, records []domain.Session, now time.Time) {
	for _, rec := range records {
		item := rec.Item
		if item == "" {
			item = "(activate)"
		}
		fmt.Fprintf(out, "%s | %s | %s | exit %d | %s\n",
			humanize.RelTime(rec.StartedAt, now, "ago", "from now"),
			item,
			formatDuration(rec.Duration, now),
			rec.ExitCode,
			filesystem.FriendlyPath(rec.DevelopmentDirectory))
	}
}

// formatDuration renders d as "3 minutes"; anything under a second is "now".
func formatDuration(d time.Duration, now time.Time) string {
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}
