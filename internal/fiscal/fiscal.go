// Package fiscal derives illustrative tax-regime estimates and
// acquisition-model narratives from proposal and portfolio revenue.
// The figures are planning heuristics, not compliance advice.
package fiscal

import (
	"fmt"

	"github.com/amazing-skyhawk/crm/internal/money"
)

// EntityType selects the rate schedule and advisory notes of an analysis.
type EntityType int

const (
	// Security is the surveillance entity (SkyHawk Security).
	Security EntityType = iota
	// Engineering is the drone-operations entity (AmazingDrone Solutions).
	Engineering
)

// Tax scheme names used as keys of Analysis.Estimates.
const (
	SchemeSimples   = "Simples Nacional"
	SchemePresumido = "Lucro Presumido"
)

const (
	presumidoRate = 0.1633

	// Security heuristic: assumed payroll share of revenue and the
	// employer contribution rate applied to it (Anexo IV keeps INSS
	// Patronal outside the Simples rate).
	securityPayrollShare = 0.40
	payrollTaxRate       = 0.20

	// Engineering Fator R: payroll must stay above this share of revenue
	// to hold Anexo III.
	fatorRShare = 0.28

	// Above this annual revenue Simples stops being attractive.
	presumidoAlertAnnual = 3_600_000.0
)

type bracketRow struct {
	maxAnnual       float64
	label           string
	securityRate    float64
	engineeringRate float64
}

var brackets = []bracketRow{
	{180_000, "1 (Até 180k)", 0.06, 0.045},
	{360_000, "2 (180k - 360k)", 0.112, 0.09},
	{720_000, "3 (360k - 720k)", 0.135, 0.102},
	{0, "4 (720k - 1.8M)", 0.16, 0.14},
}

// Analysis is the fiscal picture of one entity at a given monthly revenue.
// It is recomputed on every report render and never persisted.
type Analysis struct {
	MonthlyRevenue float64
	AnnualRevenue  float64
	BracketLabel   string
	BaseRate       float64

	// Estimates maps scheme name to the estimated monthly tax amount.
	Estimates map[string]float64

	// PayrollSurcharge and EstimatedTotalCost are filled for Security:
	// the assumed employer payroll contribution and the Simples estimate
	// plus that surcharge.
	PayrollSurcharge   float64
	EstimatedTotalCost float64

	// RequiredPayroll is filled for Engineering: the minimum monthly
	// payroll that keeps the entity inside Fator R.
	RequiredPayroll float64

	Advisory []string
}

// ClassifyTaxBracket annualizes the monthly revenue, resolves the Simples
// Nacional bracket for the entity and computes the monthly estimates under
// both schemes. Zero revenue classifies safely into the first bracket with
// zeroed estimates; negative revenue is refused.
func ClassifyTaxBracket(monthlyRevenue float64, entity EntityType) (Analysis, error) {
	if monthlyRevenue < 0 {
		return Analysis{}, fmt.Errorf("faturamento mensal deve ser maior ou igual a 0, recebido %.2f", monthlyRevenue)
	}

	annual := monthlyRevenue * 12

	row := brackets[len(brackets)-1]
	for _, b := range brackets {
		if b.maxAnnual == 0 || annual <= b.maxAnnual {
			row = b
			break
		}
	}

	rate := row.securityRate
	if entity == Engineering {
		rate = row.engineeringRate
	}

	a := Analysis{
		MonthlyRevenue: monthlyRevenue,
		AnnualRevenue:  annual,
		BracketLabel:   row.label,
		BaseRate:       rate,
		Estimates: map[string]float64{
			SchemeSimples:   monthlyRevenue * rate,
			SchemePresumido: monthlyRevenue * presumidoRate,
		},
	}

	switch entity {
	case Security:
		a.PayrollSurcharge = monthlyRevenue * securityPayrollShare * payrollTaxRate
		a.EstimatedTotalCost = a.Estimates[SchemeSimples] + a.PayrollSurcharge
		a.Advisory = append(a.Advisory,
			">> ATENÇÃO (Segurança): O Monitoramento pode cair no Anexo IV (INSS Patronal à parte).",
			fmt.Sprintf(">> INSS Patronal estimado (folha 40%%): %s/mês. Custo tributário total estimado: %s/mês.",
				money.Format(a.PayrollSurcharge), money.Format(a.EstimatedTotalCost)),
		)
	case Engineering:
		a.RequiredPayroll = monthlyRevenue * fatorRShare
		a.Advisory = append(a.Advisory,
			fmt.Sprintf(">> Fator R (Engenharia): Mantenha a folha > 28%% do faturamento (%s/mês) para garantir Anexo III.",
				money.Format(a.RequiredPayroll)),
		)
	}

	if annual > presumidoAlertAnnual {
		a.Advisory = append(a.Advisory, ">> ALERTA: Faturamento alto! Considere Lucro Presumido.")
	} else {
		a.Advisory = append(a.Advisory, fmt.Sprintf(">> Simples Nacional (Faixa %s) parece eficiente.", a.BracketLabel))
	}

	return a, nil
}
