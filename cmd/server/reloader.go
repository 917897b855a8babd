package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"rdhub/internal/dataset"
	"rdhub/internal/loader"
	"rdhub/internal/loader/source"
	"rdhub/internal/query"
	"rdhub/internal/query/handler"
	"rdhub/internal/query/metrics"
	"rdhub/pkg/domain"
	dErrors "rdhub/pkg/domain-errors"
)

// datasetReloader builds new sessions from the configured data sources. It
// implements handler.Reloader.
type datasetReloader struct {
	loader       *loader.Loader
	db           *sql.DB
	stagingTable string
	metrics      *metrics.Metrics
}

func (d *datasetReloader) Reload(ctx context.Context, req handler.ReloadRequest) (*query.Session, error) {
	family, err := domain.ParseFamily(req.Family)
	if err != nil {
		return nil, err
	}
	switch req.Source {
	case handler.SourceCSV:
		return d.loadCSV(ctx, req.Path, family)
	case handler.SourcePostgres:
		if d.db == nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "postgres source is not configured")
		}
		src := source.NewPostgresSource(d.db, d.stagingTable, string(family))
		return d.load(ctx, src, family)
	default:
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown source: %q", req.Source)
	}
}

func (d *datasetReloader) loadCSV(ctx context.Context, path string, family domain.Family) (*query.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "opening dataset file")
	}
	defer f.Close()
	return d.load(ctx, source.NewCSVSource(f), family)
}

func (d *datasetReloader) load(ctx context.Context, src source.Source, family domain.Family) (*query.Session, error) {
	frame, rejections, err := d.loader.Load(ctx, src, family)
	if err != nil {
		return nil, err
	}
	if d.metrics != nil {
		d.metrics.RowsLoaded.Add(float64(frame.Len()))
		for reason, n := range dataset.CountByReason(rejections) {
			d.metrics.RowsRejected.WithLabelValues(string(reason)).Add(float64(n))
		}
	}
	return query.NewSession(frame, rejections, time.Now()), nil
}
