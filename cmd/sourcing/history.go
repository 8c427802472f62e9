package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

func historyCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage saved proposals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved proposals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := root.app.history.List()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved proposals.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPRIORITY\tPRODUCT")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Priority, e.ProductName)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved proposal (default: newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := root.app
			entry, err := resolveEntry(root, firstArg(args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", entry.ID, entry.CreatedAt.Local().Format("2006-01-02 15:04"))
			printProposal(out, entry.Proposal)
			printNotifications(out, a.alerts.Evaluate(entry.Proposal))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one saved proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.app.history.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every saved proposal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.app.history.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	})
	return cmd
}

// resolveEntry selects the entry with id, or the newest one when id is empty.
func resolveEntry(root *rootOptions, id string) (entity.HistoryEntry, error) {
	h := root.app.history
	if id == "" {
		entries := h.List()
		if len(entries) == 0 {
			return entity.HistoryEntry{}, common.NewAppError("HISTORY_EMPTY", "No saved proposals yet. Run analyze first.", common.ErrNotFound)
		}
		id = entries[0].ID
	}
	if _, err := h.Select(id); err != nil {
		return entity.HistoryEntry{}, err
	}
	entry, _ := h.Active()
	return entry, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
