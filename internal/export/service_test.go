package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

func sampleProposal() entity.Proposal {
	return entity.Proposal{
		ProductName:          "Bamboo Cutting Board",
		MinimumOrderQuantity: 500,
		LeadTime:             "30-45 days",
		SampleAvailability:   true,
		FactoryBids: []entity.FactoryBid{
			{Name: "Fujian Bamboo Co.", Price: 1.5, Risk: "Low", Sustainability: "FSC and ISO 14001 certified"},
			{Name: "Zhejiang Home", Price: 1.8, Risk: "Medium"},
		},
		PackagingOptions: []entity.PackagingOption{{Name: "Kraft Box", PricePerUnit: 0.3}},
		PackagingDetails: entity.PackagingDetails{UnitsPerCarton: 24},
		DDPPriceTiers: []entity.PriceTier{
			{Quantity: 500, PricePerUnit: 4.2},
			{Quantity: 1000, PricePerUnit: 3.6},
		},
		LogisticsAssumptions: entity.LogisticsAssumptions{ExportCountry: "China"},
		DDPCostBreakdown: entity.CostBreakdown{
			FactoryPrice:   entity.NumberPtr(1.5),
			Section301Duty: entity.NumberPtr(0.4),
		},
		Sources: entity.Sources{Tariff: []string{"https://hts.usitc.gov"}},
	}
}

func openWorkbook(t *testing.T, bs []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(bs))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	r, err := f.GetRows(sheet)
	require.NoError(t, err)
	return r
}

func TestProposalXLSX_Sheets(t *testing.T) {
	bs, err := NewService(nil).ProposalXLSX(context.Background(), sampleProposal(), Options{RetailPrice: 19.99})
	require.NoError(t, err)

	f := openWorkbook(t, bs)
	assert.Equal(t,
		[]string{SheetSummary, SheetTiers, SheetBreakdown, SheetBids, SheetMargins, SheetCartons},
		f.GetSheetList())

	summary := rows(t, f, SheetSummary)
	assert.Equal(t, []string{"Product", "Bamboo Cutting Board"}, summary[1])
	assert.Contains(t, summary, []string{"DDP Price", "$3.60 at 1,000 units"})
	assert.Contains(t, summary, []string{"Source 1", "https://hts.usitc.gov"})

	tiers := rows(t, f, SheetTiers)
	require.Len(t, tiers, 3)
	assert.Equal(t, "1000", tiers[2][0])

	breakdown := rows(t, f, SheetBreakdown)
	var labels []string
	for _, r := range breakdown[1:] {
		labels = append(labels, r[0])
	}
	assert.Contains(t, labels, "Sec 301 Duty")
	assert.Equal(t, "Total DDP", labels[len(labels)-1])

	bids := rows(t, f, SheetBids)
	require.Len(t, bids, 3)
	assert.Equal(t, "Yes", bids[1][7])
	assert.Equal(t, "Excellent", bids[1][5])

	cartons := rows(t, f, SheetCartons)
	require.Len(t, cartons, 3)
	assert.Equal(t, []string{"500", "24", "21"}, cartons[1][:3])
}

func TestProposalXLSX_MarginsNeedRetail(t *testing.T) {
	svc := NewService(nil)

	bs, err := svc.ProposalXLSX(context.Background(), sampleProposal(), Options{})
	require.NoError(t, err)
	margins := rows(t, openWorkbook(t, bs), SheetMargins)
	assert.Equal(t, []string{"Quantity", "Unit Price (USD)", "Landed Cost (USD)", "Margin %"}, margins[len(margins)-1])

	bs, err = svc.ProposalXLSX(context.Background(), sampleProposal(), Options{RetailPrice: 10, Packaging: "Kraft Box"})
	require.NoError(t, err)
	margins = rows(t, openWorkbook(t, bs), SheetMargins)
	last := margins[len(margins)-1]
	assert.Equal(t, "1000", last[0])
	assert.Equal(t, "3.9", last[2])
	assert.Equal(t, "61", last[3])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")
	require.NoError(t, NewService(nil).WriteFile(context.Background(), path, sampleProposal(), Options{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 6)
}

func TestProposalXLSX_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewService(nil).ProposalXLSX(ctx, sampleProposal(), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
