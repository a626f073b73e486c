package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/fiscal"
	"github.com/amazing-skyhawk/crm/internal/pricing"
	"github.com/amazing-skyhawk/crm/internal/report"
)

func sampleProposal(t *testing.T) Proposal {
	t.Helper()

	tier, err := pricing.ResolveSurveillancePrice(pricing.ContractRental, 36)
	if err != nil {
		t.Fatalf("resolve tier: %v", err)
	}
	surveillance, err := pricing.SurveillanceLine(tier, 2)
	if err != nil {
		t.Fatalf("surveillance line: %v", err)
	}
	volumetry, err := pricing.VolumetryLine(1, 4)
	if err != nil {
		t.Fatalf("volumetry line: %v", err)
	}

	cart := pricing.Cart{Items: []pricing.LineItem{surveillance, volumetry}}
	split := pricing.ComputeTotals(cart)

	roi, err := fiscal.EvaluateAcquisitionROI(pricing.ContractRental, split.Total, 36)
	if err != nil {
		t.Fatalf("roi: %v", err)
	}

	return Proposal{
		Client:         "Mineradora Aurora",
		Contract:       pricing.ContractRental,
		DurationMonths: 36,
		Cart:           cart,
		Total:          split.Total,
		ROI:            roi,
		LogoPath:       "missing_logo.png",
	}
}

func TestProposalHTML_ContainsProposalData(t *testing.T) {
	html, err := ProposalHTML(sampleProposal(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"PROPOSTA TÉCNICA E COMERCIAL",
		"Mineradora Aurora",
		"Comodato (Aluguel)",
		"36 Meses",
		"Monitoramento Comodato (3 Anos (Padrão))",
		"(Base 3 Rondas + 2 Extras)",
		"Volumetria (4 Bat)",
		"Total Mensal: R$ 39,700.00", // 30000 + 2*850 + 8000
		"CAPEX Zero",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected html to contain %q", want)
		}
	}

	// Missing logo degrades to a layout without the image tag.
	if strings.Contains(html, "<img") {
		t.Fatalf("expected no logo image for missing file")
	}
}

func TestProposalHTML_RequiresClient(t *testing.T) {
	p := sampleProposal(t)
	p.Client = ""
	if _, err := ProposalHTML(p); err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestProposalHTML_IsDeterministic(t *testing.T) {
	p := sampleProposal(t)

	first, err := ProposalHTML(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ProposalHTML(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("rendering the same proposal twice produced different documents")
	}
}

func TestProposalPDF_ProducesDocument(t *testing.T) {
	data, err := ProposalPDF(sampleProposal(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got prefix %q", data[:min(8, len(data))])
	}
}

func TestProposalPDF_RequiresClient(t *testing.T) {
	p := sampleProposal(t)
	p.Client = ""
	if _, err := ProposalPDF(p); err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestPortfolioPDF_ProducesDocument(t *testing.T) {
	all := []deals.Deal{
		{
			ID:             1,
			Client:         "Mineradora Aurora",
			ContractType:   "Comodato (Aluguel)",
			DurationMonths: 36,
			ServiceSummary: "Monitoramento Comodato (3 Anos (Padrão))",
			TotalMonthly:   30000,
			SkyhawkRevenue: 30000,
			OwningEntity:   "SkyHawk Security",
			RecordedDate:   "01/02/2026",
		},
		{
			ID:             2,
			Client:         "Agro Vale Verde",
			ContractType:   "Venda + Software (SaaS)",
			DurationMonths: 24,
			ServiceSummary: "Mapeamento",
			TotalMonthly:   12000,
			AmazingRevenue: 12000,
			OwningEntity:   "AmazingDrone Solutions",
			RecordedDate:   "10/02/2026",
		},
	}

	portfolio := report.Aggregate(all)
	analysis, err := report.Analyze(portfolio)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	data, err := PortfolioPDF(all, portfolio, analysis, "28/08/2026", "missing_logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got prefix %q", data[:min(8, len(data))])
	}
}

func TestPortfolioPDF_EmptyHistory(t *testing.T) {
	portfolio := report.Aggregate(nil)
	analysis, err := report.Analyze(portfolio)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	data, err := PortfolioPDF(nil, portfolio, analysis, "28/08/2026", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty document for empty history")
	}
}
