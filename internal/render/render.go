// Package render turns engine outputs into the client-facing proposal
// (hypertext and paginated) and the internal portfolio report. It only
// consumes plain data produced by the pricing and fiscal packages.
package render

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/amazing-skyhawk/crm/internal/fiscal"
	"github.com/amazing-skyhawk/crm/internal/pricing"
)

// Proposal carries everything needed to render one commercial proposal.
type Proposal struct {
	Client         string
	Contract       pricing.ContractType
	DurationMonths int
	Cart           pricing.Cart
	Total          float64
	ROI            fiscal.ROIAnalysis

	// LogoPath may point at a missing file; rendering then degrades to a
	// no-logo layout.
	LogoPath string
}

type itemRow struct {
	Name     string
	Quantity float64
	Unit     string
	Note     string
	Total    float64
}

func itemRows(cart pricing.Cart) []itemRow {
	rows := make([]itemRow, 0, len(cart.Items))
	for _, item := range cart.Items {
		row := itemRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Total:    item.Total,
		}
		if item.Category == pricing.CategorySurveillance {
			extras := int(item.Quantity) - 3
			row.Note = "(Base 3 Rondas)"
			if extras > 0 {
				row.Note = fmt.Sprintf("(Base 3 Rondas + %d Extras)", extras)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// logoDataURI inlines the logo as a base64 data URI, or returns "" when
// the file is absent or unreadable.
func logoDataURI(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// truncate caps a label at n characters for fixed-width table cells.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func logoExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
