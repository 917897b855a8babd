// Package dataset holds the loaded record model shared by every analytics
// service: immutable frames of country-year indicator records plus the
// rejection taxonomy for rows that did not survive loading.
package dataset

import (
	"rdhub/pkg/domain"
)

// Record is one country-year indicator observation.
// Records are unique per (Country, Indicator, Year, Stratifier).
type Record struct {
	Country    domain.CountryID
	Indicator  domain.IndicatorCode
	Year       int
	Stratifier string // optional: sex, age band, or case category; "" for national totals
	Value      float64
	Lower      *float64 // optional uncertainty bounds, Lower <= Value <= Upper
	Upper      *float64
}

// Key is the uniqueness key of a record.
type Key struct {
	Country    domain.CountryID
	Indicator  domain.IndicatorCode
	Year       int
	Stratifier string
}

// Key returns the record's uniqueness key.
func (r Record) Key() Key {
	return Key{Country: r.Country, Indicator: r.Indicator, Year: r.Year, Stratifier: r.Stratifier}
}

// National reports whether the record is an unstratified national total.
// Only national records participate in regional aggregation and rankings.
func (r Record) National() bool {
	return r.Stratifier == ""
}
