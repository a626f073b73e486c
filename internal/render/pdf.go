package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/amazing-skyhawk/crm/internal/deals"
	"github.com/amazing-skyhawk/crm/internal/fiscal"
	"github.com/amazing-skyhawk/crm/internal/money"
	"github.com/amazing-skyhawk/crm/internal/report"
)

// ProposalPDF renders the paginated commercial proposal.
func ProposalPDF(p Proposal) ([]byte, error) {
	if p.Client == "" {
		return nil, fmt.Errorf("cliente é obrigatório para gerar a proposta")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if logoExists(p.LogoPath) {
		pdf.ImageOptions(p.LogoPath, 55, 10, 100, 0, false, fpdf.ImageOptions{}, 0, "")
	}

	pdf.SetY(50)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("PROPOSTA COMERCIAL INTEGRADA"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 5, tr("Amazing SkyHawk Holding"), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, tr("Cliente: "+p.Client), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Modalidade: %s | Vigência: %d meses", p.Contract, p.DurationMonths)), "", 1, "L", false, 0, "")

	pdf.Ln(5)
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, pdf.GetY(), 190, 40, "F")
	pdf.SetXY(15, pdf.GetY()+5)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, tr("Análise de ROI & Investimento:"), "", 1, "L", false, 0, "")
	pdf.SetX(15)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(180, 5, tr(p.ROI.PrintableSummary), "", "L", false)

	pdf.Ln(15)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(0, 77, 64)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(110, 10, tr("Serviço"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 10, "Qtd", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 10, "Total (R$)", "1", 1, "R", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for _, row := range itemRows(p.Cart) {
		pdf.CellFormat(110, 10, tr(truncate(row.Name, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 10, tr(fmt.Sprintf("%g %s", row.Quantity, row.Unit)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 10, money.Group(row.Total), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Total Mensal: "+money.Format(p.Total)), "", 1, "R", false, 0, "")

	pdf.SetY(-45)
	ySig := pdf.GetY()
	pdf.SetFont("Arial", "", 10)
	pdf.Line(60, ySig, 150, ySig)
	pdf.Text(85, ySig+5, tr("Amazing SkyHawk Holding"))

	return outputPDF(pdf)
}

// PortfolioPDF renders the internal management report: the deal history
// table plus one fiscal box per entity. refDate is the report reference
// date, already formatted by the caller.
func PortfolioPDF(all []deals.Deal, portfolio report.Portfolio, analysis report.Analysis, refDate, logoPath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if logoExists(logoPath) {
		pdf.ImageOptions(logoPath, 55, 10, 100, 0, false, fpdf.ImageOptions{}, 0, "")
	}

	pdf.Ln(50)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("RELATÓRIO DE GESTÃO E PERFORMANCE"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Data: %s | Ref: Consolidado de Vendas", refDate)), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(10, 8, "ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 8, "Cliente", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Contrato", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Total Venda", "1", 0, "C", true, 0, "")
	pdf.CellFormat(37.5, 8, "Fat. SkyHawk", "1", 0, "C", true, 0, "")
	pdf.CellFormat(37.5, 8, "Fat. Amazing", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, d := range all {
		client := truncate(d.Client, 25)
		// The short contract tag ("Comodato"/"Venda"), as the table is narrow.
		contract, _, _ := strings.Cut(d.ContractType, " ")
		pdf.CellFormat(10, 8, fmt.Sprintf("%d", d.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 8, tr(client), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, tr(contract), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, money.Group(d.TotalMonthly), "1", 0, "C", false, 0, "")
		pdf.CellFormat(37.5, 8, money.Group(d.SkyhawkRevenue), "1", 0, "C", false, 0, "")
		pdf.CellFormat(37.5, 8, money.Group(d.AmazingRevenue), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("ANÁLISE TRIBUTÁRIA POR EMPRESA"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeFiscalBox(pdf, tr, "SKYHAWK SECURITY", portfolio.SkyhawkTotal, analysis.Skyhawk, 224, 242, 241)
	pdf.Ln(10)
	writeFiscalBox(pdf, tr, "AMAZING DRONE SOLUTIONS", portfolio.AmazingTotal, analysis.Amazing, 255, 243, 224)

	return outputPDF(pdf)
}

func writeFiscalBox(pdf *fpdf.Fpdf, tr func(string) string, title string, total float64, a fiscal.Analysis, r, g, b int) {
	pdf.SetFillColor(r, g, b)
	pdf.Rect(10, pdf.GetY(), 190, 45, "F")
	pdf.SetXY(15, pdf.GetY()+5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s (Total: %s)", title, money.Format(total))), "", 1, "L", false, 0, "")
	pdf.SetX(15)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Estimativa Anual: %s | Enquadramento: Simples Nacional Faixa %s",
		money.Format(a.AnnualRevenue), a.BracketLabel)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetX(15)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(90, 6, tr(fmt.Sprintf("Imposto Est. (Simples): %s/mês", money.Format(a.Estimates[fiscal.SchemeSimples]))), "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 6, tr(fmt.Sprintf("Imposto Est. (Presumido): %s/mês", money.Format(a.Estimates[fiscal.SchemePresumido]))), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "I", 8)
	for _, note := range a.Advisory {
		pdf.SetX(15)
		pdf.MultiCell(180, 4, tr(note), "", "L", false)
	}
}

func outputPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
