package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/core"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/export"
	"github.com/joseph-ayodele/sourcing-assistant/internal/images"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm/gemini"
)

func analyzeCommand(root *rootOptions) *cobra.Command {
	var (
		paths      []string
		dir        string
		details    string
		country    string
		priority   string
		primary    int
		skipScore  bool
		xlsxPath   string
		retail     float64
		packaging  string
		skipHidden bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score product photos and request a sourcing proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := root.app
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if err := a.cfg.ValidateLLM(); err != nil {
				return err
			}
			prio, ok := constants.CanonicalPriority(priority)
			if !ok {
				return fmt.Errorf("unknown priority %q, want one of %v", priority, constants.PrioritiesAsStrings())
			}

			client, err := gemini.NewClient(ctx, gemini.Config{
				APIKey:       a.cfg.LLM.APIKey,
				Model:        a.cfg.LLM.Model,
				ScoringModel: a.cfg.LLM.ScoringModel,
				Temperature:  a.cfg.LLM.Temperature,
				Timeout:      a.cfg.LLM.Timeout,
			}, a.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			deps := core.Deps{
				Analyzer: client,
				History:  a.history,
				Alerts:   a.alerts,
				Metrics:  a.metrics,
			}
			if !skipScore {
				deps.Scorer = client
			}
			proc := core.NewProcessor(deps, a.logger,
				core.WithImageLimits(images.Limits{
					MaxCount:  a.cfg.Images.MaxCount,
					MaxBytes:  a.cfg.Images.MaxBytes,
					NoticeTTL: a.cfg.Images.NoticeTTL,
				}),
				core.WithScoringTimeout(a.cfg.LLM.Timeout),
			)
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				proc.Shutdown(sctx)
			}()

			files, err := collectImages(ctx, paths, dir, skipHidden, a.cfg.Images.MaxBytes)
			if err != nil {
				return err
			}
			res, err := proc.AddImages(ctx, files)
			if err != nil {
				return err
			}
			if res.Notice != "" {
				fmt.Fprintln(os.Stderr, res.Notice)
			}

			proc.WaitScoring()
			if primary >= 0 {
				if err := proc.Images().SetPrimary(primary); err != nil {
					return err
				}
			}
			printSlots(out, proc.Images().Snapshot(), proc.Images().Primary())

			result, err := proc.Analyze(ctx, core.AnalyzeInput{Details: details, Country: country, Priority: prio})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "\nSaved as %s\n\n", result.Entry.ID)
			printProposal(out, result.Proposal)
			printNotifications(out, result.Notifications)

			if xlsxPath != "" {
				if err := a.export.WriteFile(ctx, xlsxPath, result.Proposal, export.Options{RetailPrice: retail, Packaging: packaging}); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nWorkbook written to %s\n", xlsxPath)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&paths, "image", "i", nil, "product photo; repeat for more (max 5)")
	f.StringVar(&dir, "dir", "", "load every photo in this directory")
	f.BoolVar(&skipHidden, "skip-hidden", true, "ignore dot files when loading a directory")
	f.StringVarP(&details, "details", "d", "", "what you know about the product")
	f.StringVar(&country, "country", "", "preferred export country")
	f.StringVarP(&priority, "priority", "p", string(constants.PriorityMedium), "Low, Medium or High")
	f.IntVar(&primary, "primary", -1, "force the primary photo by index instead of the best-scored one")
	f.BoolVar(&skipScore, "no-score", false, "skip photo quality scoring")
	f.StringVar(&xlsxPath, "xlsx", "", "also write the proposal workbook here")
	f.Float64Var(&retail, "retail", 0, "target retail price for the margin sheet")
	f.StringVar(&packaging, "packaging", "", "packaging option for the margin sheet (default: first)")
	return cmd
}

func collectImages(ctx context.Context, paths []string, dir string, skipHidden bool, maxBytes int64) ([]entity.UploadedImage, error) {
	files, err := images.LoadPaths(paths, maxBytes)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		more, stats, err := images.LoadDirectory(ctx, dir, skipHidden, maxBytes)
		if err != nil {
			return nil, err
		}
		if stats.Failed > 0 {
			fmt.Fprintf(os.Stderr, "%d file(s) in %s could not be read\n", stats.Failed, dir)
		}
		files = append(files, more...)
	}
	return files, nil
}
