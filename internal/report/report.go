// Package report aggregates the deal history for the management view.
package report

import (
	"fmt"

	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/fiscal"
)

// Portfolio is the roll-up of every recorded deal. Sums come from the
// persisted fields; individual line items are not stored.
type Portfolio struct {
	TotalRevenue float64
	SkyhawkTotal float64
	AmazingTotal float64
	DealCount    int
}

// Aggregate sums the persisted revenue columns. No deals yields zeroed
// totals, not an error.
func Aggregate(all []deals.Deal) Portfolio {
	p := Portfolio{DealCount: len(all)}
	for _, d := range all {
		p.TotalRevenue += d.TotalMonthly
		p.SkyhawkTotal += d.SkyhawkRevenue
		p.AmazingTotal += d.AmazingRevenue
	}
	return p
}

// Analysis pairs the per-entity fiscal pictures for the combined report.
type Analysis struct {
	Skyhawk fiscal.Analysis
	Amazing fiscal.Analysis
}

// Analyze runs each entity's portfolio revenue through the fiscal engine
// with its own entity type.
func Analyze(p Portfolio) (Analysis, error) {
	sky, err := fiscal.ClassifyTaxBracket(p.SkyhawkTotal, fiscal.Security)
	if err != nil {
		return Analysis{}, fmt.Errorf("analisar SkyHawk: %w", err)
	}

	amz, err := fiscal.ClassifyTaxBracket(p.AmazingTotal, fiscal.Engineering)
	if err != nil {
		return Analysis{}, fmt.Errorf("analisar Amazing: %w", err)
	}

	return Analysis{Skyhawk: sky, Amazing: amz}, nil
}
