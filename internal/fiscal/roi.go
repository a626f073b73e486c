package fiscal

import (
	"fmt"

	"github.com/amazing-skyhawk/crm/internal/money"
	"github.com/amazing-skyhawk/crm/internal/pricing"
)

// Economic model behind the rent-vs-buy comparison. The monthly advantage
// is a fixed modeled gap between the two price tables, not recomputed from
// the cart; the break-even point follows from it.
const (
	EquipmentCost      = 160_000.0
	OwnershipAdvantage = 8_000.0
	BreakEvenMonths    = int(EquipmentCost / OwnershipAdvantage) // 20

	rentalComparisonMonths = 36
)

// ROIAnalysis is the comparative-economics narrative attached to a
// proposal. Body carries HTML paragraphs for the hypertext document,
// PrintableSummary a plain-text condensation for the paginated one.
type ROIAnalysis struct {
	Headline         string
	Body             string
	PrintableSummary string
}

// EvaluateAcquisitionROI classifies a proposal into one of four narrative
// branches over (contract type, duration): purchase beyond or short of the
// 20-month break-even, and rental above or below the 36-month comparison
// horizon. All embedded figures come from the linear model above.
func EvaluateAcquisitionROI(contract pricing.ContractType, monthlyTotal float64, durationMonths int) (ROIAnalysis, error) {
	if durationMonths < 1 {
		return ROIAnalysis{}, fmt.Errorf("duração em meses deve ser no mínimo 1, recebido %d", durationMonths)
	}
	if monthlyTotal < 0 {
		return ROIAnalysis{}, fmt.Errorf("total mensal deve ser maior ou igual a 0, recebido %.2f", monthlyTotal)
	}

	switch contract {
	case pricing.ContractPurchase:
		return purchaseROI(durationMonths), nil
	case pricing.ContractRental:
		return rentalROI(durationMonths), nil
	}
	return ROIAnalysis{}, fmt.Errorf("modelo de contrato inválido: %q", contract)
}

func purchaseROI(durationMonths int) ROIAnalysis {
	a := ROIAnalysis{
		Headline: fmt.Sprintf("Análise Financeira: AQUISIÇÃO + SAAS (%d Meses)", durationMonths),
	}

	if durationMonths > BreakEvenMonths {
		profitMonths := durationMonths - BreakEvenMonths
		savings := float64(profitMonths) * OwnershipAdvantage
		a.Body = fmt.Sprintf(`
<p><b>1. Aquisição (CAPEX):</b> Investimento inicial de <b>%s</b>. O drone torna-se patrimônio da empresa.</p>
<p><b>2. Ponto de Equilíbrio:</b> A economia mensal de %s em relação ao Comodato paga o ativo no mês %d.</p>
<p><b>3. Retorno Projetado:</b> Restam %d meses de vantagem após o equilíbrio, totalizando <b>%s</b> de economia no contrato.</p>
`,
			money.Format(EquipmentCost), money.Format(OwnershipAdvantage), BreakEvenMonths,
			profitMonths, money.Format(savings))
		a.PrintableSummary = fmt.Sprintf(
			"Modelo Aquisição (%d meses): compra do ativo (%s) com equilíbrio no mês %d. Economia projetada de %s (%d meses x %s).",
			durationMonths, money.Format(EquipmentCost), BreakEvenMonths,
			money.Format(savings), profitMonths, money.Format(OwnershipAdvantage))
		return a
	}

	a.Body = fmt.Sprintf(`
<p><b>1. Aquisição (CAPEX):</b> Investimento inicial de <b>%s</b>.</p>
<p><b>2. Atenção:</b> Com %d meses de vigência, a compra não atinge o ponto de equilíbrio de %d meses. O investimento não se paga dentro do contrato.</p>
<p><b>3. Recomendação:</b> Para este prazo, o modelo Comodato é financeiramente mais seguro.</p>
`,
		money.Format(EquipmentCost), durationMonths, BreakEvenMonths)
	a.PrintableSummary = fmt.Sprintf(
		"Modelo Aquisição (%d meses): a compra (%s) não atinge o equilíbrio de %d meses dentro da vigência. Recomenda-se o Comodato.",
		durationMonths, money.Format(EquipmentCost), BreakEvenMonths)
	return a
}

func rentalROI(durationMonths int) ROIAnalysis {
	a := ROIAnalysis{
		Headline: fmt.Sprintf("Análise Financeira: COMODATO (%d Meses)", durationMonths),
	}

	pricingNote := ""
	switch {
	case durationMonths <= 12:
		pricingNote = fmt.Sprintf("<p><b>Precificação de Curto Prazo:</b> O valor mensal inclui amortização acelerada do ativo (%s) + margem de risco de 30%%, garantindo a cobertura total do investimento em 1 ano.</p>",
			money.Format(EquipmentCost))
	case durationMonths >= 48:
		pricingNote = "<p><b>Vantagem de Longo Prazo:</b> Como o equipamento se paga nos primeiros anos, aplicamos descontos agressivos por fidelidade.</p>"
	}

	if durationMonths >= rentalComparisonMonths {
		opportunityCost := float64(durationMonths-BreakEvenMonths) * OwnershipAdvantage
		a.Body = fmt.Sprintf(`
<p><b>1. Estratégia CAPEX Zero:</b> Economia imediata de <b>%s</b> (custo do drone). O valor é diluído na mensalidade.</p>
<p><b>2. Benefício Fiscal (OPEX):</b> O valor total da fatura abate no cálculo do IRPJ (Lucro Real).</p>
<p><b>3. Custo de Oportunidade:</b> Em %d meses, a aquisição teria economizado <b>%s</b> após o equilíbrio no mês %d.</p>
%s`,
			money.Format(EquipmentCost), durationMonths,
			money.Format(opportunityCost), BreakEvenMonths, pricingNote)
		a.PrintableSummary = fmt.Sprintf(
			"Modelo Comodato (%d meses): isenção de investimento inicial (%s). Custo de oportunidade frente à aquisição: %s.",
			durationMonths, money.Format(EquipmentCost), money.Format(opportunityCost))
		return a
	}

	a.Body = fmt.Sprintf(`
<p><b>1. Estratégia CAPEX Zero:</b> Economia imediata de <b>%s</b> (custo do drone). O valor é diluído na mensalidade.</p>
<p><b>2. Prazo Curto:</b> Em %d meses o equipamento não se amortizaria; o Comodato é a única opção financeiramente sólida para esta vigência.</p>
%s`,
		money.Format(EquipmentCost), durationMonths, pricingNote)
	a.PrintableSummary = fmt.Sprintf(
		"Modelo Comodato (%d meses): isenção de investimento inicial (%s). Mensalidade calibrada para cobertura do ativo e risco operacional.",
		durationMonths, money.Format(EquipmentCost))
	return a
}
