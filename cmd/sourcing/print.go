package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joseph-ayodele/sourcing-assistant/internal/alerts"
	"github.com/joseph-ayodele/sourcing-assistant/internal/calc"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/images"
)

func printSlots(w io.Writer, slots []images.Slot, primary int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFILE\tSCORE\tRATING\tFEEDBACK")
	for i, s := range slots {
		mark := ""
		if i == primary {
			mark = "*"
		}
		score := "-"
		if s.Quality.Score != nil {
			score = fmt.Sprint(*s.Quality.Score)
		}
		rating := string(s.Quality.Rating)
		if s.Quality.Pending {
			rating = "pending"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%s\t%s\t%s\n", i, mark, s.Image.Name, score, rating, s.Quality.Feedback)
	}
	_ = tw.Flush()
}

func printProposal(w io.Writer, p entity.Proposal) {
	fmt.Fprintln(w, calc.SummaryText(p))

	if snippet := calc.InsightSnippet(p.DemandAnalysis.GenAIInsight.String()); snippet != "" {
		fmt.Fprintf(w, "\nInsight: %s\n", snippet)
	}

	fmt.Fprintln(w, "\nDDP price tiers:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, pt := range calc.ChartSeries(p.DDPPriceTiers) {
		fmt.Fprintf(tw, "  %s\t%s\n", pt.Label, calc.FormatUSD(pt.Y))
	}
	_ = tw.Flush()

	items := calc.CostBreakdown(p)
	fmt.Fprintf(w, "\nCost breakdown (per unit at %s units):\n", calc.FormatQty(calc.ReferenceQuantity))
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "  %s\t$%s\n", it.Label, it.Value.StringFixed(2))
	}
	fmt.Fprintf(tw, "  Total\t$%s\n", calc.BreakdownTotal(items).StringFixed(2))
	_ = tw.Flush()

	if len(p.FactoryBids) > 0 {
		fmt.Fprintln(w, "\nFactory bids:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, b := range p.FactoryBids {
			rec := ""
			if calc.IsRecommendedBid(p, b) {
				rec = " (recommended)"
			}
			risk := string(calc.ClassifyRisk(b.Risk.String()))
			if risk == "" {
				risk = "n/a"
			}
			fmt.Fprintf(tw, "  %s%s\t%s\trisk %s\tsustainability %s\n",
				b.Name, rec, calc.FormatUSD(b.Price.Float()), risk, calc.ClassifySustainability(b.Sustainability.String()))
		}
		_ = tw.Flush()
	}

	if urls := calc.SourceURLs(p); len(urls) > 0 {
		fmt.Fprintf(w, "\nSources:\n  %s\n", strings.Join(urls, "\n  "))
	}
}

func printNotifications(w io.Writer, notes []alerts.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "\nALERT: %s\n", n.Message)
	}
}
