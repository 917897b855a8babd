//go:build integration

package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"rdhub/internal/catalog"
	"rdhub/internal/dataset"
	"rdhub/internal/loader"
	"rdhub/internal/loader/source"
	"rdhub/internal/registry"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
	"rdhub/pkg/testutil/containers"
)

const stagingTable = "staging_rows"

const stagingSchema = `CREATE TABLE IF NOT EXISTS staging_rows (
	id          BIGSERIAL PRIMARY KEY,
	family      TEXT NOT NULL,
	country     TEXT NOT NULL,
	indicator   TEXT NOT NULL,
	year        INTEGER NOT NULL,
	value       NUMERIC NOT NULL,
	stratifier  TEXT,
	lower_bound NUMERIC,
	upper_bound NUMERIC
)`

type PostgresSourceSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	loader   *loader.Loader
}

func TestPostgresSourceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSourceSuite))
}

func (s *PostgresSourceSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	_, err := s.postgres.DB.ExecContext(context.Background(), stagingSchema)
	s.Require().NoError(err)

	load, err := loader.New(registry.New(), catalog.New())
	s.Require().NoError(err)
	s.loader = load
}

func (s *PostgresSourceSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), stagingTable)
	s.Require().NoError(err)
}

func (s *PostgresSourceSuite) insert(family, country, indicator string, year int, value float64, stratifier, lower, upper any) {
	s.T().Helper()
	_, err := s.postgres.DB.ExecContext(context.Background(),
		`INSERT INTO staging_rows (family, country, indicator, year, value, stratifier, lower_bound, upper_bound)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		family, country, indicator, year, value, stratifier, lower, upper)
	s.Require().NoError(err)
}

// TestFamilyFilterAndOrdering verifies that only rows for the requested
// family come back, in insertion order, with sequential line numbers.
func (s *PostgresSourceSuite) TestFamilyFilterAndOrdering() {
	ctx := context.Background()
	s.insert("mortality", "Kenya", "mmr", 2019, 360, nil, nil, nil)
	s.insert("tb_burden", "Kenya", "tb_inc_100k", 2019, 259, nil, nil, nil)
	s.insert("mortality", "Kenya", "mmr", 2020, 353, nil, nil, nil)

	src := source.NewPostgresSource(s.postgres.DB, stagingTable, "mortality")
	rows, err := src.Rows(ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	s.Equal(1, rows[0].Line)
	s.Equal("360", rows[0].Value)
	s.Equal(2, rows[1].Line)
	s.Equal("353", rows[1].Value)
}

// TestNullColumnsReadAsEmpty verifies the NULL coalescing on the optional
// columns: a national row with no bounds must look identical to the same
// row read from a sparse CSV.
func (s *PostgresSourceSuite) TestNullColumnsReadAsEmpty() {
	ctx := context.Background()
	s.insert("mortality", "Kenya", "mmr", 2020, 353, nil, nil, nil)
	s.insert("mortality", "Kenya", "mmr", 2021, 342, "rural", 250.5, 460)

	src := source.NewPostgresSource(s.postgres.DB, stagingTable, "mortality")
	rows, err := src.Rows(ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	s.Empty(rows[0].Stratifier)
	s.Empty(rows[0].Lower)
	s.Empty(rows[0].Upper)

	s.Equal("rural", rows[1].Stratifier)
	s.Equal("250.5", rows[1].Lower)
	s.Equal("460", rows[1].Upper)
}

// TestLoadFromStaging runs the full loader over the staging table.
func (s *PostgresSourceSuite) TestLoadFromStaging() {
	ctx := context.Background()
	s.insert("mortality", "Kenya", "mmr", 2019, 360, nil, nil, nil)
	s.insert("mortality", "Ivory Coast", "mmr", 2019, 480, nil, nil, nil)
	s.insert("mortality", "Atlantis", "mmr", 2019, 1, nil, nil, nil)

	src := source.NewPostgresSource(s.postgres.DB, stagingTable, "mortality")
	frame, rejections, err := s.loader.Load(ctx, src, domain.FamilyMortality)
	s.Require().NoError(err)

	s.Equal(2, frame.Len())
	s.Require().Len(rejections, 1)
	s.Equal(dataset.RejectUnknownCountry, rejections[0].Reason)
	s.Equal("Atlantis", rejections[0].Label)
}

// TestEmptyStagingTable verifies that a reload against an empty table is
// rejected instead of producing an empty frame.
func (s *PostgresSourceSuite) TestEmptyStagingTable() {
	ctx := context.Background()

	src := source.NewPostgresSource(s.postgres.DB, stagingTable, "mortality")
	_, _, err := s.loader.Load(ctx, src, domain.FamilyMortality)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

// TestMissingTable verifies that a misconfigured table name surfaces as an
// internal error, not a row-level rejection.
func (s *PostgresSourceSuite) TestMissingTable() {
	ctx := context.Background()

	src := source.NewPostgresSource(s.postgres.DB, "no_such_table", "mortality")
	_, err := src.Rows(ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
