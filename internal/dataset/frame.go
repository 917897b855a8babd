package dataset

import (
	"fmt"
	"hash/fnv"
	"sort"

	"rdhub/pkg/domain"
)

// Frame is an immutable snapshot of loaded records for one indicator family.
// All derived statistics are recomputed from frames; nothing mutates one in
// place. The fingerprint identifies the exact record content so caches keyed
// on it invalidate structurally when data is reloaded.
type Frame struct {
	family  domain.Family
	records []Record
	print   string
}

// NewFrame builds a frame from loaded records. Records are copied and sorted
// into canonical order (country, indicator, year, stratifier) so the
// fingerprint is independent of load order.
func NewFrame(family domain.Family, records []Record) Frame {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Indicator != b.Indicator {
			return a.Indicator < b.Indicator
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Stratifier < b.Stratifier
	})

	h := fnv.New64a()
	fmt.Fprintf(h, "%s\n", family)
	for _, r := range sorted {
		fmt.Fprintf(h, "%s|%s|%d|%s|%g", r.Country, r.Indicator, r.Year, r.Stratifier, r.Value)
		if r.Lower != nil {
			fmt.Fprintf(h, "|l%g", *r.Lower)
		}
		if r.Upper != nil {
			fmt.Fprintf(h, "|u%g", *r.Upper)
		}
		fmt.Fprint(h, "\n")
	}

	return Frame{
		family:  family,
		records: sorted,
		print:   fmt.Sprintf("%016x", h.Sum64()),
	}
}

// Family returns the indicator family the frame was loaded for.
func (f Frame) Family() domain.Family { return f.family }

// Len returns the number of records in the frame.
func (f Frame) Len() int { return len(f.records) }

// Fingerprint returns the content hash of the frame.
func (f Frame) Fingerprint() string { return f.print }

// Records returns a copy of all records in canonical order.
func (f Frame) Records() []Record {
	out := make([]Record, len(f.records))
	copy(out, f.records)
	return out
}

// CrossSection returns the national records for one indicator and year,
// one per country at most, in canonical country order.
func (f Frame) CrossSection(indicator domain.IndicatorCode, year int) []Record {
	var out []Record
	for _, r := range f.records {
		if r.Indicator == indicator && r.Year == year && r.National() {
			out = append(out, r)
		}
	}
	return out
}

// CountrySeries returns the national records for one country and indicator
// ordered by year ascending.
func (f Frame) CountrySeries(country domain.CountryID, indicator domain.IndicatorCode) []Record {
	var out []Record
	for _, r := range f.records {
		if r.Country == country && r.Indicator == indicator && r.National() {
			out = append(out, r)
		}
	}
	// Canonical order already sorts by year within (country, indicator).
	return out
}

// Stratified returns the stratified records for one country, indicator, and
// year keyed by stratifier.
func (f Frame) Stratified(country domain.CountryID, indicator domain.IndicatorCode, year int) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range f.records {
		if r.Country == country && r.Indicator == indicator && r.Year == year && !r.National() {
			out[r.Stratifier] = r.Value
		}
	}
	return out
}

// YearRange returns the span of years with national data for an indicator.
// ok is false when the indicator has no national records.
func (f Frame) YearRange(indicator domain.IndicatorCode) (minYear, maxYear int, ok bool) {
	for _, r := range f.records {
		if r.Indicator != indicator || !r.National() {
			continue
		}
		if !ok {
			minYear, maxYear, ok = r.Year, r.Year, true
			continue
		}
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear, ok
}

// LatestYear returns the most recent year with national data for an indicator.
func (f Frame) LatestYear(indicator domain.IndicatorCode) (int, bool) {
	_, maxYear, ok := f.YearRange(indicator)
	return maxYear, ok
}

// Countries returns the distinct countries present in the frame, sorted.
func (f Frame) Countries() []domain.CountryID {
	seen := make(map[domain.CountryID]struct{})
	var out []domain.CountryID
	for _, r := range f.records {
		if _, ok := seen[r.Country]; !ok {
			seen[r.Country] = struct{}{}
			out = append(out, r.Country)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Indicators returns the distinct indicator codes present in the frame, sorted.
func (f Frame) Indicators() []domain.IndicatorCode {
	seen := make(map[domain.IndicatorCode]struct{})
	var out []domain.IndicatorCode
	for _, r := range f.records {
		if _, ok := seen[r.Indicator]; !ok {
			seen[r.Indicator] = struct{}{}
			out = append(out, r.Indicator)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
