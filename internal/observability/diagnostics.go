package observability

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/geothermal-site-service/internal/domain"
)

// DiagnosticSink forwards parser and fusion counts to the logger and the
// rows_processed_total counter.
type DiagnosticSink struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewDiagnosticSink creates a sink implementing domain.DiagnosticSink.
func NewDiagnosticSink(logger *slog.Logger, metrics *Metrics) *DiagnosticSink {
	return &DiagnosticSink{logger: logger, metrics: metrics}
}

func (s *DiagnosticSink) Report(d domain.Diagnostic) {
	source, stage := string(d.Source), string(d.Stage)
	s.metrics.RowsProcessed.WithLabelValues(source, stage, "accepted").Add(float64(d.Accepted))
	s.metrics.RowsProcessed.WithLabelValues(source, stage, "rejected").Add(float64(d.Rejected))

	level := slog.LevelDebug
	if d.Rejected > 0 {
		level = slog.LevelInfo
	}
	s.logger.Log(context.Background(), level, "source rows processed",
		"source", source,
		"stage", stage,
		"accepted", d.Accepted,
		"rejected", d.Rejected,
	)
}
