package domain

// Poverty guideline defaults for the 48 contiguous states, taken from one
// reference year's published guidelines. They are policy data and change
// yearly; override them through configuration rather than editing callers.
const (
	// DefaultBaseGuideline is the guideline income for a one-person household.
	DefaultBaseGuideline = 12140.0
	// DefaultPerAdditionalMember is added to the guideline for each member beyond the first.
	DefaultPerAdditionalMember = 4320.0
)

// Guidelines holds the poverty-line policy values used to derive FPL percentages.
type Guidelines struct {
	Base                float64
	PerAdditionalMember float64
}

// DefaultGuidelines returns the built-in guideline values.
func DefaultGuidelines() Guidelines {
	return Guidelines{
		Base:                DefaultBaseGuideline,
		PerAdditionalMember: DefaultPerAdditionalMember,
	}
}

// GuidelineIncome is the poverty-line income for a household of memberCount people.
// It is strictly positive for memberCount >= 1 when Base > 0 and PerAdditionalMember >= 0.
func (g Guidelines) GuidelineIncome(memberCount int) float64 {
	n := memberCount - 1
	return g.Base + float64(n)*g.PerAdditionalMember
}

// Percentage returns income as a fraction of the guideline income for the household size.
// 1.0 means exactly at the poverty line, 0.5 means half of it. The quotient is not rounded.
//
// Inputs are assumed to have passed validation (memberCount >= 1).
func (g Guidelines) Percentage(income float64, memberCount int) float64 {
	return income / g.GuidelineIncome(memberCount)
}

// FPLPercentage computes Percentage with the default guidelines.
func FPLPercentage(income float64, memberCount int) float64 {
	return DefaultGuidelines().Percentage(income, memberCount)
}

// HouseholdFPL computes the FPL percentage of a validated household.
func (g Guidelines) HouseholdFPL(h Household) float64 {
	return g.Percentage(h.Income, len(h.Members))
}
