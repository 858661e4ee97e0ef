package domain

// Source identifies one raw input.
type Source string

const (
	SourceBHT      Source = "bht"
	SourceHeatFlow Source = "heat_flow"
	SourceGravity  Source = "gravity"
	SourceWells    Source = "wells"
)

// Stage identifies where in the pipeline a diagnostic was produced.
type Stage string

const (
	StageParse Stage = "parse"
	StageMerge Stage = "merge"
)

// Diagnostic reports row counts for one source at one stage. Accepted rows
// moved on to the next stage; rejected rows were dropped (malformed
// coordinates, missing required values, unknown region codes).
type Diagnostic struct {
	Source   Source
	Stage    Stage
	Accepted int
	Rejected int
}

// DiagnosticSink receives structured counts from parsers and the fusion
// engine. Implementations must be safe for concurrent use because the three
// sources are parsed in parallel.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// NopSink discards diagnostics.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

func sinkOrNop(s DiagnosticSink) DiagnosticSink {
	if s == nil {
		return NopSink{}
	}
	return s
}
