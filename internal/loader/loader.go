// Package loader turns raw tabular rows into a validated, deduplicated
// frame. Data-quality problems never fail a load: bad rows are dropped into
// a rejection list that travels with the result. Only unrecoverable shape
// problems (no rows, missing mandatory columns) surface as errors.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"rdhub/internal/catalog"
	"rdhub/internal/dataset"
	"rdhub/internal/loader/source"
	"rdhub/internal/registry"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// Loader resolves and validates raw rows against the country registry and
// the indicator catalog.
type Loader struct {
	registry *registry.Registry
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// Option configures the loader.
type Option func(*Loader)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New constructs a loader.
func New(reg *registry.Registry, cat *catalog.Catalog, opts ...Option) (*Loader, error) {
	if reg == nil {
		return nil, fmt.Errorf("country registry is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("indicator catalog is required")
	}
	l := &Loader{registry: reg, catalog: cat}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load reads the full batch from src and builds a frame for the family.
// The result is all-or-nothing at the batch level; row-level problems are
// returned as rejections alongside the frame.
func (l *Loader) Load(ctx context.Context, src source.Source, family domain.Family) (dataset.Frame, []dataset.Rejection, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return dataset.Frame{}, nil, err
	}
	return l.LoadRows(ctx, rows, family)
}

// LoadRows resolves, validates, and deduplicates a batch of raw rows.
func (l *Loader) LoadRows(ctx context.Context, rows []source.Row, family domain.Family) (dataset.Frame, []dataset.Rejection, error) {
	if len(rows) == 0 {
		return dataset.Frame{}, nil, dErrors.New(dErrors.CodeBadRequest, "no rows to load")
	}

	var rejections []dataset.Rejection
	reject := func(reason dataset.RejectionReason, row source.Row, label, detail string) {
		rejections = append(rejections, dataset.Rejection{
			Reason: reason,
			Row:    row.Line,
			Label:  label,
			Detail: detail,
		})
	}

	kept := make([]dataset.Record, 0, len(rows))
	keptIndex := make(map[dataset.Key]int, len(rows))
	keptLine := make(map[dataset.Key]int, len(rows))

	for _, row := range rows {
		countryID, ok := l.registry.Resolve(row.Country)
		if !ok {
			reject(dataset.RejectUnknownCountry, row, row.Country, "label resolves to no known country")
			continue
		}
		if !l.registry.IsMember(countryID) {
			reject(dataset.RejectUnknownCountry, row, row.Country, "country is outside the fixed membership set")
			continue
		}

		code, ok := l.catalog.Resolve(family, row.Indicator)
		if !ok {
			reject(dataset.RejectUnknownIndicator, row, row.Indicator, fmt.Sprintf("label resolves to no %s indicator", family))
			continue
		}

		year, err := parseYear(row.Year)
		if err != nil {
			reject(dataset.RejectMalformedRow, row, row.Year, "unparsable year")
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
		if err != nil {
			reject(dataset.RejectMalformedRow, row, row.Value, "unparsable value")
			continue
		}

		lower, err := parseOptionalFloat(row.Lower)
		if err != nil {
			reject(dataset.RejectMalformedRow, row, row.Lower, "unparsable lower bound")
			continue
		}
		upper, err := parseOptionalFloat(row.Upper)
		if err != nil {
			reject(dataset.RejectMalformedRow, row, row.Upper, "unparsable upper bound")
			continue
		}
		if (lower != nil && *lower > value) || (upper != nil && value > *upper) {
			reject(dataset.RejectMalformedRow, row, row.Value, "value outside its uncertainty bounds")
			continue
		}

		record := dataset.Record{
			Country:    countryID,
			Indicator:  code,
			Year:       year,
			Stratifier: strings.TrimSpace(row.Stratifier),
			Value:      value,
			Lower:      lower,
			Upper:      upper,
		}

		key := record.Key()
		if i, dup := keptIndex[key]; dup {
			// Last-seen wins; the displaced row is logged, never silently dropped.
			rejections = append(rejections, dataset.Rejection{
				Reason: dataset.RejectDuplicateRecord,
				Row:    keptLine[key],
				Label:  row.Country,
				Detail: fmt.Sprintf("superseded by row %d for %s/%s/%d", row.Line, record.Country, record.Indicator, record.Year),
			})
			kept[i] = record
			keptLine[key] = row.Line
			continue
		}
		keptIndex[key] = len(kept)
		keptLine[key] = row.Line
		kept = append(kept, record)
	}

	frame := dataset.NewFrame(family, kept)
	if l.logger != nil {
		l.logger.InfoContext(ctx, "batch loaded",
			"family", family,
			"rows_in", len(rows),
			"records", frame.Len(),
			"rejections", len(rejections),
		)
	}
	return frame, rejections, nil
}

// parseYear accepts plain years, float-formatted years, and ranges like
// "2015-2016" (the first year wins, matching the upstream convention).
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty year")
	}
	if i := strings.IndexByte(raw, '-'); i > 0 {
		raw = raw[:i]
	}
	if year, err := strconv.Atoi(raw); err == nil {
		return year, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
