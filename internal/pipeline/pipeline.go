package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrNotLoaded is returned by Snapshot before any load has finished.
var ErrNotLoaded = errors.New("no data loaded yet")

// Publisher pushes a freshly built location set downstream.
type Publisher interface {
	PublishLocations(ctx context.Context, locations []domain.FusedLocation) error
}

// Pipeline owns the current snapshot and rebuilds it from the sources.
type Pipeline struct {
	loader    *Loader
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	snapshot atomic.Pointer[domain.Snapshot]
	views    atomic.Pointer[domain.Views]
	ready    atomic.Bool

	mu      sync.Mutex
	lastErr error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher sends every new location set to pub.
func WithPublisher(pub Publisher) Option {
	return func(p *Pipeline) { p.publisher = pub }
}

// WithReloadInterval rebuilds the snapshot every d. Zero disables reloads.
func WithReloadInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.interval = d }
}

// WithClock replaces the reload ticker's time source.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline around loader.
func New(loader *Loader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a combined load has succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		if err := p.loadErr(); err != nil {
			return err
		}
		return ErrNotLoaded
	}
	return nil
}

// Snapshot returns the most recent successful snapshot. Before the first
// success it returns the last load error, or ErrNotLoaded.
func (p *Pipeline) Snapshot() (*domain.Snapshot, error) {
	if s := p.snapshot.Load(); s != nil {
		return s, nil
	}
	if err := p.loadErr(); err != nil {
		return nil, err
	}
	return nil, ErrNotLoaded
}

// Views returns the well and gravity views from the latest refresh. They are
// replaced on every refresh, whether or not the combined load succeeded, so
// only ErrNotLoaded is ever returned.
func (p *Pipeline) Views() (*domain.Views, error) {
	if v := p.views.Load(); v != nil {
		return v, nil
	}
	return nil, ErrNotLoaded
}

// Run performs the initial load, then reloads on the configured interval
// until ctx is cancelled. Load failures are logged and retried on the next
// tick; the previous snapshot stays in service.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "reload_interval", p.interval)
	p.refreshAndLog(ctx)

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.refreshAndLog(ctx)
		}
	}
}

func (p *Pipeline) refreshAndLog(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error("load failed", "error", err)
	}
}

// Refresh rebuilds the snapshot. The combined dataset and both single-source
// views load concurrently. The views are always published; the snapshot is
// replaced only when the combined load succeeds.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := time.Now()

	var (
		wg       sync.WaitGroup
		snap     domain.Snapshot
		views    domain.Views
		buildErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		snap.Dataset, buildErr = p.loader.LoadDataset(ctx)
	}()
	go func() {
		defer wg.Done()
		views.Wells, views.MapWells, views.WellTemperatures = p.loader.LoadWells(ctx)
	}()
	go func() {
		defer wg.Done()
		views.Gravity = p.loader.LoadGravity(ctx)
	}()
	wg.Wait()

	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	p.views.Store(&views)

	if buildErr != nil {
		outcome := "error"
		if errors.Is(buildErr, domain.ErrNoValidLocations) {
			outcome = "empty"
		}
		p.metrics.LoadsTotal.WithLabelValues(outcome).Inc()
		p.setLoadErr(buildErr)
		return buildErr
	}

	snap.Views = views
	p.snapshot.Store(&snap)
	p.ready.Store(true)
	p.setLoadErr(nil)

	p.metrics.LoadsTotal.WithLabelValues("success").Inc()
	p.metrics.FusedLocations.WithLabelValues("partial").Set(float64(len(snap.Dataset.Locations)))
	p.metrics.FusedLocations.WithLabelValues("complete").Set(float64(len(snap.Dataset.Complete)))
	p.metrics.SnapshotAge.Set(float64(snap.Dataset.GeneratedAt.Unix()))

	p.logger.Info("snapshot published",
		"locations", len(snap.Dataset.Locations),
		"complete", len(snap.Dataset.Complete),
		"map_wells", len(snap.MapWells),
		"gravity_stations", snap.Gravity.Statistics.TotalStations,
		"duration", time.Since(start),
	)

	p.publish(ctx, snap.Dataset.Locations)
	return nil
}

func (p *Pipeline) publish(ctx context.Context, locations []domain.FusedLocation) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishLocations(ctx, locations); err != nil {
		p.logger.Warn("publish locations failed", "error", err, "locations", len(locations))
		return
	}
	p.metrics.SnapshotsPushed.Inc()
}

func (p *Pipeline) loadErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Pipeline) setLoadErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
}
