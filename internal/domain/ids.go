package domain

// HouseholdID is the opaque identifier a household record is stored under.
// Its only contract is uniqueness per creation.
type HouseholdID string
