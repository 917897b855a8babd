package source

import (
	"context"
	"database/sql"
	"fmt"

	dErrors "rdhub/pkg/domain-errors"
)

// PostgresSource reads raw rows from a staging table with the columns
// (country, indicator, year, value, stratifier, lower_bound, upper_bound,
// family). Values are read as text: parsing and data-quality judgment stay
// in the loader, identical to the CSV path.
type PostgresSource struct {
	db     *sql.DB
	table  string
	family string
}

// NewPostgresSource reads the staging rows for one family selector.
// The table name is trusted configuration, not user input.
func NewPostgresSource(db *sql.DB, table, family string) *PostgresSource {
	return &PostgresSource{db: db, table: table, family: family}
}

// Rows fetches the full batch. Any scan failure fails the whole read;
// there is no partially-read state.
func (s *PostgresSource) Rows(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf(`SELECT country, indicator, year::text, value::text,
		COALESCE(stratifier, ''), COALESCE(lower_bound::text, ''), COALESCE(upper_bound::text, '')
		FROM %s WHERE family = $1 ORDER BY id`, s.table)

	rows, err := s.db.QueryContext(ctx, query, s.family)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "querying staging table")
	}
	defer rows.Close()

	var out []Row
	line := 0
	for rows.Next() {
		line++
		r := Row{Line: line}
		if err := rows.Scan(&r.Country, &r.Indicator, &r.Year, &r.Value, &r.Stratifier, &r.Lower, &r.Upper); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scanning staging row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterating staging rows")
	}
	return out, nil
}
