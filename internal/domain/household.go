package domain

// Gender is the recorded gender of a household member.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the accepted values. Matching is case-sensitive.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Member is one person counted in a household.
type Member struct {
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
}

// Household is the canonical record shape. It is the only form ever persisted:
// exactly these two fields, members in submission order.
type Household struct {
	Income  float64  `json:"income"`
	Members []Member `json:"members"`
}

// SampleHousehold returns the fixed example used to document the schema.
func SampleHousehold() Household {
	return Household{
		Income: 50000,
		Members: []Member{
			{Age: 45, Gender: GenderFemale},
			{Age: 40, Gender: GenderMale},
		},
	}
}

