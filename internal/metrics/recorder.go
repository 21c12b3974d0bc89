package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
	ResultSkipped  ResultLabel = "skipped"
)

// BuildOutcomeLabel is the final status of a build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// ImageResultLabel is the per-image outcome of the OG renderer.
type ImageResultLabel string

const (
	ImageRendered ImageResultLabel = "rendered"
	ImageSkipped  ImageResultLabel = "skipped"
	ImageFailed   ImageResultLabel = "failed"
)

// Recorder defines observability hooks for the content pipeline.
// Implementations must be safe for concurrent use; generators report from
// their own goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetPosts(total, published int)
	IncImageResult(result ImageResultLabel)
	ObserveArtifactSize(artifact string, bytes int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetPosts(int, int)                          {}
func (NoopRecorder) IncImageResult(ImageResultLabel)            {}
func (NoopRecorder) ObserveArtifactSize(string, int)            {}
