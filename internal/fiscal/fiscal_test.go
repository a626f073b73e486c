package fiscal

import (
	"math"
	"strings"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestClassifyTaxBracket_Brackets(t *testing.T) {
	cases := []struct {
		monthly      float64
		entity       EntityType
		wantLabel    string
		wantBaseRate float64
	}{
		{10_000, Security, "1 (Até 180k)", 0.06},        // annual 120k
		{15_000, Security, "1 (Até 180k)", 0.06},        // annual exactly 180k
		{20_000, Security, "2 (180k - 360k)", 0.112},    // annual 240k
		{50_000, Security, "3 (360k - 720k)", 0.135},    // annual 600k
		{100_000, Security, "4 (720k - 1.8M)", 0.16},    // annual 1.2M
		{10_000, Engineering, "1 (Até 180k)", 0.045},
		{20_000, Engineering, "2 (180k - 360k)", 0.09},
		{50_000, Engineering, "3 (360k - 720k)", 0.102},
		{100_000, Engineering, "4 (720k - 1.8M)", 0.14},
	}

	for _, tc := range cases {
		a, err := ClassifyTaxBracket(tc.monthly, tc.entity)
		if err != nil {
			t.Fatalf("ClassifyTaxBracket(%v) returned error: %v", tc.monthly, err)
		}
		if a.BracketLabel != tc.wantLabel {
			t.Fatalf("bracket for %v = %q, want %q", tc.monthly, a.BracketLabel, tc.wantLabel)
		}
		nearlyEqual(t, "baseRate", a.BaseRate, tc.wantBaseRate)
		nearlyEqual(t, "annual", a.AnnualRevenue, tc.monthly*12)
		nearlyEqual(t, "simples", a.Estimates[SchemeSimples], tc.monthly*tc.wantBaseRate)
		nearlyEqual(t, "presumido", a.Estimates[SchemePresumido], tc.monthly*0.1633)
	}
}

func TestClassifyTaxBracket_ZeroRevenue(t *testing.T) {
	a, err := ClassifyTaxBracket(0, Security)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nearlyEqual(t, "annual", a.AnnualRevenue, 0)
	if a.BracketLabel != "1 (Até 180k)" {
		t.Fatalf("bracket = %q, want first bracket", a.BracketLabel)
	}
	nearlyEqual(t, "simples", a.Estimates[SchemeSimples], 0)
	nearlyEqual(t, "presumido", a.Estimates[SchemePresumido], 0)
	nearlyEqual(t, "surcharge", a.PayrollSurcharge, 0)
	nearlyEqual(t, "totalCost", a.EstimatedTotalCost, 0)
}

func TestClassifyTaxBracket_RejectsNegativeRevenue(t *testing.T) {
	if _, err := ClassifyTaxBracket(-1, Security); err == nil {
		t.Fatal("expected error for negative revenue")
	}
}

func TestClassifyTaxBracket_SecurityPayrollSurcharge(t *testing.T) {
	a, err := ClassifyTaxBracket(30_000, Security)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Payroll assumed at 40% of revenue, taxed at 20%: 30000*0.4*0.2 = 2400.
	nearlyEqual(t, "surcharge", a.PayrollSurcharge, 2400)
	// Annual 360k is bracket 2 at 11.2%: 3360 + 2400 = 5760.
	nearlyEqual(t, "totalCost", a.EstimatedTotalCost, 5760)

	joined := strings.Join(a.Advisory, "\n")
	if !strings.Contains(joined, "Anexo IV") {
		t.Fatalf("expected Anexo IV note, got: %s", joined)
	}
	if !strings.Contains(joined, "R$ 2,400.00") {
		t.Fatalf("expected surcharge amount in notes, got: %s", joined)
	}
}

func TestClassifyTaxBracket_EngineeringFatorR(t *testing.T) {
	a, err := ClassifyTaxBracket(50_000, Engineering)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nearlyEqual(t, "requiredPayroll", a.RequiredPayroll, 14_000)
	nearlyEqual(t, "surcharge", a.PayrollSurcharge, 0)

	joined := strings.Join(a.Advisory, "\n")
	if !strings.Contains(joined, "Fator R") || !strings.Contains(joined, "R$ 14,000.00") {
		t.Fatalf("expected Fator R note with required payroll, got: %s", joined)
	}
}

func TestClassifyTaxBracket_AdvisoryRegimeHint(t *testing.T) {
	efficient, err := ClassifyTaxBracket(50_000, Engineering)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.Join(efficient.Advisory, "\n"), "parece eficiente") {
		t.Fatalf("expected efficiency note, got: %v", efficient.Advisory)
	}

	// 400k monthly is 4.8M annual, beyond the Simples comfort zone.
	alert, err := ClassifyTaxBracket(400_000, Engineering)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(strings.Join(alert.Advisory, "\n"), "Considere Lucro Presumido") {
		t.Fatalf("expected presumido alert, got: %v", alert.Advisory)
	}
}
