package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Fetcher resolves a source location to its raw bytes.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.Reader, error)
}

// Sources names where each raw input lives: a path or an http(s) URL.
type Sources struct {
	BHT      string
	Wells    string
	HeatFlow string
	Gravity  string
}

// Loader fetches and parses the raw sources.
type Loader struct {
	fetcher Fetcher
	sources Sources
	sink    domain.DiagnosticSink
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader. A nil sink discards diagnostics.
func NewLoader(f Fetcher, sources Sources, sink domain.DiagnosticSink, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if sink == nil {
		sink = domain.NopSink{}
	}
	return &Loader{
		fetcher: f,
		sources: sources,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
	}
}

// LoadDataset fetches the BHT, heat-flow and gravity sources concurrently
// and fuses them. The first source failure cancels the others and is
// returned wrapped; an empty fusion result returns domain.ErrNoValidLocations.
func (l *Loader) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	var (
		wells    []domain.RawWellRecord
		flows    []domain.RawHeatFlowRecord
		stations []domain.RawGravityStationRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wells, err = loadSource(gctx, l, domain.SourceBHT, l.sources.BHT, l.sink, domain.ParseBHT)
		return err
	})
	g.Go(func() error {
		var err error
		flows, err = loadSource(gctx, l, domain.SourceHeatFlow, l.sources.HeatFlow, l.sink, domain.ParseHeatFlow)
		return err
	})
	g.Go(func() error {
		var err error
		stations, err = loadSource(gctx, l, domain.SourceGravity, l.sources.Gravity, l.sink, domain.ParseGravity)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Dataset{}, err
	}

	l.logger.Info("sources loaded",
		"bht_points", len(wells),
		"heat_flow_points", len(flows),
		"gravity_points", len(stations),
	)

	return domain.BuildDataset(wells, flows, stations, l.sink)
}

// LoadWells builds the well-only view. A failed source degrades to an empty
// summary with no map wells.
func (l *Loader) LoadWells(ctx context.Context) (domain.WellSummary, []domain.MapWell, domain.Range) {
	sink := relabelSink{next: l.sink, source: domain.SourceWells}
	records, err := loadSource(ctx, l, domain.SourceWells, l.sources.Wells, sink, domain.ParseBHT)
	if err != nil {
		l.logger.Error("well data unavailable, serving empty summary", "error", err)
		return domain.EmptyWellSummary(), []domain.MapWell{}, domain.Range{}
	}
	return domain.NewWellView(records)
}

// LoadGravity builds the gravity-only view. A failed source degrades to an
// empty summary.
func (l *Loader) LoadGravity(ctx context.Context) domain.GravitySummary {
	stations, err := loadSource(ctx, l, domain.SourceGravity, l.sources.Gravity, domain.NopSink{}, domain.ParseGravity)
	if err != nil {
		l.logger.Error("gravity data unavailable, serving empty summary", "error", err)
		return domain.EmptyGravitySummary()
	}
	return domain.SummarizeGravity(stations)
}

type parseFunc[T any] func(r io.Reader, sink domain.DiagnosticSink) ([]T, error)

func loadSource[T any](ctx context.Context, l *Loader, src domain.Source, location string, sink domain.DiagnosticSink, parse parseFunc[T]) ([]T, error) {
	r, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		l.metrics.SourceFailures.WithLabelValues(string(src)).Inc()
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	records, err := parse(r, sink)
	if err != nil {
		l.metrics.SourceFailures.WithLabelValues(string(src)).Inc()
		return nil, fmt.Errorf("load %s: %w: %w", src, domain.ErrSourceUnavailable, err)
	}
	return records, nil
}

// relabelSink reports parser counts under a different source name, so the
// well-only view is distinguishable from the BHT input of the fused set.
type relabelSink struct {
	next   domain.DiagnosticSink
	source domain.Source
}

func (s relabelSink) Report(d domain.Diagnostic) {
	d.Source = s.source
	s.next.Report(d)
}
