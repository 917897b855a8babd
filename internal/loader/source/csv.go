package source

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	dErrors "rdhub/pkg/domain-errors"
)

// CSVSource reads rows from a CSV export with a header line. Column names
// are matched case-insensitively against a small set of accepted spellings
// per field; extra columns are ignored.
type CSVSource struct {
	r io.Reader
}

// NewCSVSource wraps a reader positioned at the header line.
func NewCSVSource(r io.Reader) *CSVSource {
	return &CSVSource{r: r}
}

// Accepted header spellings per field. Mandatory fields are country,
// indicator, year, and value.
var headerFields = map[string][]string{
	"country":    {"country", "country_name", "location"},
	"indicator":  {"indicator", "indicator_name", "label", "series"},
	"year":       {"year"},
	"value":      {"value", "val", "estimate"},
	"stratifier": {"stratifier", "sex", "age_group", "case_type"},
	"lower":      {"lower", "lower_bound", "lo"},
	"upper":      {"upper", "upper_bound", "hi"},
}

var mandatory = []string{"country", "indicator", "year", "value"}

// Rows reads the entire file. A missing mandatory column is a shape error;
// malformed cell contents are not detected here — the loader judges them
// row by row.
func (s *CSVSource) Rows(ctx context.Context) ([]Row, error) {
	reader := csv.NewReader(s.r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "reading CSV header")
	}

	cols := make(map[string]int, len(headerFields))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		for field, spellings := range headerFields {
			for _, spelling := range spellings {
				if key == spelling {
					if _, taken := cols[field]; !taken {
						cols[field] = i
					}
				}
			}
		}
	}
	for _, field := range mandatory {
		if _, ok := cols[field]; !ok {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "CSV is missing mandatory column %q", field)
		}
	}

	cell := func(record []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1 // header was line 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "reading CSV rows")
		}
		line++
		rows = append(rows, Row{
			Line:       line,
			Country:    cell(record, "country"),
			Indicator:  cell(record, "indicator"),
			Year:       cell(record, "year"),
			Value:      cell(record, "value"),
			Stratifier: cell(record, "stratifier"),
			Lower:      cell(record, "lower"),
			Upper:      cell(record, "upper"),
		})
	}
	return rows, nil
}
