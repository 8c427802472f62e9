package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sourcing-assistant/internal/lead"
)

func leadCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Hand a proposal to a sourcing expert",
	}

	var email, id string
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Send a saved proposal and your email to the sourcing team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := root.app
			if err := a.cfg.ValidateLead(); err != nil {
				return err
			}
			entry, err := resolveEntry(root, id)
			if err != nil {
				return err
			}
			client := lead.NewClient(a.cfg.Lead.Endpoint, a.cfg.Lead.Timeout, a.logger, lead.WithMetrics(a.metrics))
			res, err := client.Submit(cmd.Context(), email, entry.Proposal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	submit.Flags().StringVarP(&email, "email", "e", "", "your email address")
	submit.Flags().StringVar(&id, "id", "", "history entry to send (default: newest)")
	_ = submit.MarkFlagRequired("email")

	cmd.AddCommand(submit)
	return cmd
}
