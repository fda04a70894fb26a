package domain

import "testing"

func TestFPLPercentage_AtTheLine(t *testing.T) {
	t.Parallel()

	if got := FPLPercentage(12140.0, 1); got != 1.0 {
		t.Fatalf("FPLPercentage(12140, 1)=%v, want 1", got)
	}
	if got := FPLPercentage(16460.0, 2); got != 1.0 {
		t.Fatalf("FPLPercentage(16460, 2)=%v, want 1", got)
	}
	if got := FPLPercentage(6070.0, 1); got != 0.5 {
		t.Fatalf("FPLPercentage(6070, 1)=%v, want 0.5", got)
	}
}

func TestGuidelines_GuidelineIncome(t *testing.T) {
	t.Parallel()

	g := DefaultGuidelines()
	if got := g.GuidelineIncome(4); got != 12140.0+3*4320.0 {
		t.Fatalf("GuidelineIncome(4)=%v", got)
	}
}

func TestGuidelines_Monotonic(t *testing.T) {
	t.Parallel()

	g := DefaultGuidelines()
	incomes := []float64{1, 100, 12140, 50000, 1e7}
	for c := 1; c <= 12; c++ {
		prev := 0.0
		for _, i := range incomes {
			got := g.Percentage(i, c)
			if got <= 0 {
				t.Fatalf("Percentage(%v, %d)=%v, want > 0", i, c, got)
			}
			if got <= prev {
				t.Fatalf("Percentage not increasing in income at c=%d: %v <= %v", c, got, prev)
			}
			prev = got
		}
	}
	for _, i := range incomes {
		prev := g.Percentage(i, 1)
		for c := 2; c <= 12; c++ {
			got := g.Percentage(i, c)
			if got >= prev {
				t.Fatalf("Percentage not decreasing in members at i=%v: %v >= %v", i, got, prev)
			}
			prev = got
		}
	}
}

func TestGuidelines_CustomValues(t *testing.T) {
	t.Parallel()

	g := Guidelines{Base: 15000, PerAdditionalMember: 5000}
	h := Household{Income: 20000, Members: []Member{{Age: 30, Gender: GenderMale}, {Age: 31, Gender: GenderFemale}}}
	if got := g.HouseholdFPL(h); got != 1.0 {
		t.Fatalf("HouseholdFPL()=%v, want 1", got)
	}
}
