// Package source abstracts where raw tabular rows come from. The loader
// consumes rows without caring whether they were read from a CSV export or a
// Postgres staging table.
package source

import "context"

// Row is one raw tabular row as read from upstream, all fields unparsed.
// Line is the 1-based position in the source and rides through to rejection
// reports.
type Row struct {
	Line       int
	Country    string
	Indicator  string
	Year       string
	Value      string
	Stratifier string
	Lower      string
	Upper      string
}

// Source produces the full batch of raw rows. Reading is all-or-nothing:
// a source either returns every row or fails; partial reads are never
// exposed.
type Source interface {
	Rows(ctx context.Context) ([]Row, error)
}
