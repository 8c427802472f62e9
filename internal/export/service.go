// Package export renders a proposal into an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sourcing-assistant/internal/calc"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetTiers     = "Price Tiers"
	SheetBreakdown = "Cost Breakdown"
	SheetBids      = "Factory Bids"
	SheetMargins   = "Margins"
	SheetCartons   = "Cartons"
)

// Options picks the inputs of the margin sheet.
type Options struct {
	RetailPrice float64
	Packaging   string // option name; empty means the first option
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ProposalXLSX returns the workbook as bytes.
func (s *Service) ProposalXLSX(ctx context.Context, p entity.Proposal, opts Options) ([]byte, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetTiers, SheetBreakdown, SheetBids, SheetMargins, SheetCartons} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	writeSummary(f, p)
	writeTiers(f, p)
	writeBreakdown(f, p)
	writeBids(f, p)
	margins := writeMargins(f, p, opts)
	writeCartons(f, p)

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"product", p.ProductName,
		"tiers", len(p.DDPPriceTiers),
		"bids", len(p.FactoryBids),
		"margin_rows", margins,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func (s *Service) WriteFile(ctx context.Context, path string, p entity.Proposal, opts Options) error {
	bs, err := s.ProposalXLSX(ctx, p, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, sheet string, headers ...string) *sheetWriter {
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	if len(headers) > 0 {
		vals := make([]any, len(headers))
		for i, h := range headers {
			vals[i] = h
		}
		w.add(vals...)
	}
	return w
}

func (w *sheetWriter) add(vals ...any) {
	for i, v := range vals {
		if t, ok := v.(entity.Text); ok {
			v = t.String()
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		_ = w.f.SetCellValue(w.sheet, cell, v)
	}
	w.row++
}

func num(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}

func writeSummary(f *excelize.File, p entity.Proposal) {
	w := newSheetWriter(f, SheetSummary, "Field", "Value")

	refPrice := "N/A"
	if t, ok := calc.ReferenceTier(p); ok {
		refPrice = fmt.Sprintf("%s at %s units", calc.FormatUSD(t.PricePerUnit.Float()), calc.FormatQty(t.Qty()))
	}
	moq := "N/A"
	if n := p.MinimumOrderQuantity.Int(); n != 0 {
		moq = calc.FormatQty(n)
	}
	sample := "No"
	if p.SampleAvailability {
		sample = "Yes"
	}

	w.add("Product", p.ProductName)
	w.add("Description", p.ProductDescription)
	w.add("DDP Price", refPrice)
	w.add("MOQ", moq)
	w.add("Lead Time", p.LeadTime)
	w.add("Sample Available", sample)
	w.add("Core Material", p.Specs.CoreMaterial)
	w.add("Dimensions", p.Specs.Dimensions)
	w.add("Weight", p.Specs.Weight)
	w.add("Features", strings.Join(p.Specs.Features, "; "))
	w.add("Export Country", p.LogisticsAssumptions.ExportCountry)
	w.add("Incoterm", p.LogisticsAssumptions.Incoterm)
	w.add("HTS Code", p.DDPCostBreakdown.HTSCode)
	w.add("US Market Demand", p.DemandAnalysis.USMarketDemand)
	w.add("Competition", p.DemandAnalysis.CompetitionLevel)
	w.add("Insight", calc.InsightSnippet(p.DemandAnalysis.GenAIInsight.String()))
	for _, c := range p.ComplianceChecks {
		if c.Applicable {
			w.add("Compliance: "+c.Name, c.Details)
		}
	}
	for i, u := range calc.SourceURLs(p) {
		w.add(fmt.Sprintf("Source %d", i+1), u)
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetSummary, "B", "B", 80)
}

func writeTiers(f *excelize.File, p entity.Proposal) {
	w := newSheetWriter(f, SheetTiers, "Quantity", "Price/Unit (USD)", "Order Total (USD)")
	for _, t := range p.DDPPriceTiers {
		unit := calc.Amount(t.PricePerUnit.Float())
		w.add(t.Qty(), num(unit), num(unit.Mul(decimal.NewFromInt(int64(t.Qty())))))
	}
	_ = f.SetColWidth(SheetTiers, "A", "C", 18)
}

func writeBreakdown(f *excelize.File, p entity.Proposal) {
	w := newSheetWriter(f, SheetBreakdown, "Line", "USD / Unit")
	items := calc.CostBreakdown(p)
	for _, it := range items {
		w.add(it.Label, num(it.Value))
	}
	w.add("Total DDP", num(calc.BreakdownTotal(items)))
	_ = f.SetColWidth(SheetBreakdown, "A", "A", 20)
	_ = f.SetColWidth(SheetBreakdown, "B", "B", 14)
}

func writeBids(f *excelize.File, p entity.Proposal) {
	w := newSheetWriter(f, SheetBids,
		"Factory", "EXW Price (USD)", "Specialty", "Risk", "Risk Summary",
		"Sustainability", "Certifications", "Recommended", "Source",
	)
	for _, b := range p.FactoryBids {
		rec := ""
		if calc.IsRecommendedBid(p, b) {
			rec = "Yes"
		}
		w.add(
			b.Name,
			b.Price.Float(),
			b.Specialty,
			b.Risk,
			b.RiskSummary,
			string(calc.ClassifySustainability(b.Sustainability.String())),
			strings.Join(b.Certifications, ", "),
			rec,
			b.SourceURL,
		)
	}
	_ = f.SetColWidth(SheetBids, "A", "A", 28)
	_ = f.SetColWidth(SheetBids, "C", "G", 22)
	_ = f.SetColWidth(SheetBids, "I", "I", 48)
}

func writeMargins(f *excelize.File, p entity.Proposal, opts Options) int {
	pkg := calc.PackagingByName(p, opts.Packaging)
	rows := calc.MarginTable(p.DDPPriceTiers, pkg, opts.RetailPrice)

	w := newSheetWriter(f, SheetMargins)
	pkgName := "N/A"
	if pkg != nil {
		pkgName = pkg.Name.String()
	}
	w.add("Retail Price (USD)", opts.RetailPrice)
	w.add("Packaging", pkgName)
	w.row++
	w.add("Quantity", "Unit Price (USD)", "Landed Cost (USD)", "Margin %")
	for _, r := range rows {
		w.add(r.Quantity, num(r.UnitPrice), num(r.LandedCost), num(r.MarginPct.Round(1)))
	}
	_ = f.SetColWidth(SheetMargins, "A", "D", 18)
	return len(rows)
}

func writeCartons(f *excelize.File, p entity.Proposal) {
	w := newSheetWriter(f, SheetCartons, "Quantity", "Units/Carton", "Cartons", "Price/Unit (USD)", "Total Cost (USD)")
	for _, r := range calc.CartonTable(p) {
		w.add(r.Quantity, r.UnitsPerCarton, r.Cartons, num(r.UnitPrice), num(r.TotalCost))
	}
	_ = f.SetColWidth(SheetCartons, "A", "E", 16)
}
