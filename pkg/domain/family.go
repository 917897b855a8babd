package domain

import (
	dErrors "rdhub/pkg/domain-errors"
)

// Family scopes indicator resolution. The same raw label can mean different
// things in different source files, so every resolution carries a family.
type Family string

const (
	FamilyMortality       Family = "mortality"
	FamilyTBBurden        Family = "tb_burden"
	FamilyTBNotifications Family = "tb_notifications"
	FamilyTBOutcomes      Family = "tb_outcomes"
)

// Families lists all supported families in stable order.
func Families() []Family {
	return []Family{FamilyMortality, FamilyTBBurden, FamilyTBNotifications, FamilyTBOutcomes}
}

// ParseFamily validates a family selector at a trust boundary.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	switch f {
	case FamilyMortality, FamilyTBBurden, FamilyTBNotifications, FamilyTBOutcomes:
		return f, nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown indicator family: %q", s)
}

func (f Family) String() string { return string(f) }

// Polarity states whether lower or higher values represent improvement.
// It fixes the sign convention for target gaps and on-track checks.
type Polarity int

const (
	LowerIsBetter Polarity = iota
	HigherIsBetter
)

func (p Polarity) String() string {
	if p == HigherIsBetter {
		return "higher_is_better"
	}
	return "lower_is_better"
}
