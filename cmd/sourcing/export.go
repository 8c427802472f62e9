package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sourcing-assistant/internal/export"
)

func exportCommand(root *rootOptions) *cobra.Command {
	var (
		id        string
		outPath   string
		retail    float64
		packaging string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a saved proposal to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := resolveEntry(root, id)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = entry.ID + ".xlsx"
			}
			if err := root.app.export.WriteFile(cmd.Context(), outPath, entry.Proposal, export.Options{RetailPrice: retail, Packaging: packaging}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", outPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&id, "id", "", "history entry to export (default: newest)")
	f.StringVarP(&outPath, "out", "o", "", "output path (default: <id>.xlsx)")
	f.Float64Var(&retail, "retail", 0, "target retail price for the margin sheet")
	f.StringVar(&packaging, "packaging", "", "packaging option for the margin sheet (default: first)")
	return cmd
}
