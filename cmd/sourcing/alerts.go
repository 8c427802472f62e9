package main

import (
	"fmt"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sourcing-assistant/internal/calc"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
)

func alertsCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage target-price alerts per product and tier",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <product> <quantity> <price>",
		Short: "Alert when the tier price drops to or below price (0 removes)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return common.NewValidationError(fmt.Sprintf("price %q is not a number", args[2]))
			}
			if err := root.app.alerts.SetAlert(cmd.Context(), args[0], qty, price); err != nil {
				return err
			}
			if price <= 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed alert for %s at %s units\n", args[0], calc.FormatQty(qty))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alert set: %s at %s units <= %s\n", args[0], calc.FormatQty(qty), calc.FormatUSD(price))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <product> <quantity>",
		Short: "Remove one alert",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			return root.app.alerts.DeleteAlert(cmd.Context(), args[0], qty)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list [product]",
		Short: "List alerts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := root.app.alerts
			products := e.Products()
			if len(args) == 1 {
				products = []string{args[0]}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tQUANTITY\tTARGET")
			for _, p := range products {
				thresholds := e.For(p)
				qtys := make([]int, 0, len(thresholds))
				for q := range thresholds {
					qtys = append(qtys, q)
				}
				sort.Ints(qtys)
				for _, q := range qtys {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p, calc.FormatQty(q), calc.FormatUSD(thresholds[q]))
				}
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [history-id]",
		Short: "Evaluate alerts against a saved proposal (default: newest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := resolveEntry(root, firstArg(args))
			if err != nil {
				return err
			}
			notes := root.app.alerts.Evaluate(entry.Proposal)
			root.app.metrics.AddAlertsTriggered(len(notes))
			if len(notes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No alerts triggered for %s.\n", entry.ProductName)
				return nil
			}
			printNotifications(cmd.OutOrStdout(), notes)
			return nil
		},
	})
	return cmd
}

func parseQty(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil || q <= 0 {
		return 0, common.NewValidationError(fmt.Sprintf("quantity %q must be a positive whole number", s))
	}
	return q, nil
}
