package metrics

import "time"

// ResultLabel enumerates per-document outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSchema   ResultLabel = "schema_violation"
	ResultCompile  ResultLabel = "compile_error"
	ResultAuthor   ResultLabel = "unresolved_author"
	ResultDupSlug  ResultLabel = "duplicate_slug"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel enumerates whole-build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomePartial  BuildOutcomeLabel = "partial"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for builds, documents and compile stages.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveDocumentDuration(collection string, d time.Duration)
	IncDocumentResult(collection string, result ResultLabel)
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetCollectionSize(collection string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(string, time.Duration) {}
func (NoopRecorder) IncDocumentResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration)    {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)             {}
func (NoopRecorder) SetCollectionSize(string, int)                 {}
