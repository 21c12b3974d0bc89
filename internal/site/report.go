package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/folio/internal/fsutil"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/version"
)

// ReportSchemaVersion is bumped whenever build-report.json changes shape.
const ReportSchemaVersion = 1

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures what one pipeline run did. Generators update it from
// their own goroutines, so every mutation goes through a method.
type BuildReport struct {
	mu sync.Mutex

	SchemaVersion   int
	ID              string
	Start           time.Time
	End             time.Time
	Posts           int // every loaded document
	Published       int // posts in the snapshot
	Errors          []error
	Warnings        []error
	StageDurations  map[StageName]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Artifacts       []string // output-relative paths written
	ImagesRendered  int
	ImagesSkipped   int
	SnapshotWritten bool
	Outcome         BuildOutcome
	FolioVersion    string
}

// NewBuildReport starts a report at start with a fresh build ID.
func NewBuildReport(start time.Time) *BuildReport {
	return &BuildReport{
		SchemaVersion:   ReportSchemaVersion,
		ID:              uuid.NewString(),
		Start:           start,
		StageDurations:  make(map[StageName]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		FolioVersion:    version.Version,
	}
}

// RecordStage stores a stage's duration and outcome and emits metrics.
func (r *BuildReport) RecordStage(stage StageName, d time.Duration, se *StageError, recorder metrics.Recorder) {
	res := resultFor(se)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.StageDurations[stage] = d
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
	case StageResultWarning:
		sc.Warning++
	case StageResultFatal:
		sc.Fatal++
	case StageResultCanceled:
		sc.Canceled++
	case StageResultSkipped:
	}
	r.StageCounts[stage] = sc
	if se != nil {
		r.StageErrorKinds[stage] = se.Kind
		if se.Kind == StageErrorWarning {
			r.Warnings = append(r.Warnings, se)
		} else {
			r.Errors = append(r.Errors, se)
		}
	}

	if recorder != nil {
		recorder.ObserveStageDuration(string(stage), d)
		recorder.IncStageResult(string(stage), metrics.ResultLabel(res))
	}
}

// SetPosts records the loaded and published post counts.
func (r *BuildReport) SetPosts(total, published int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Posts = total
	r.Published = published
}

// MarkSnapshotWritten notes that posts.json was replaced in this run.
func (r *BuildReport) MarkSnapshotWritten() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SnapshotWritten = true
}

// AddArtifact records a written output path.
func (r *BuildReport) AddArtifact(rel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Artifacts = append(r.Artifacts, rel)
}

// AddImages accumulates OG image counts.
func (r *BuildReport) AddImages(rendered, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ImagesRendered += rendered
	r.ImagesSkipped += skipped
}

// Finish sets the end time and derives the outcome.
func (r *BuildReport) Finish(end time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.End = end
	r.deriveOutcome()
}

func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Err joins the fatal and canceled stage errors, or returns nil.
func (r *BuildReport) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.Errors...)
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("posts=%d published=%d artifacts=%d images=%d skipped_images=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Posts, r.Published, len(r.Artifacts), r.ImagesRendered, r.ImagesSkipped, dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes the report as JSON to path.
func (r *BuildReport) Persist(ctx context.Context, w *fsutil.Writer, path string) error {
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := w.WriteFile(ctx, path, append(jb, '\n')); err != nil {
		return fmt.Errorf("write build report: %w", err)
	}
	return nil
}

// SanitizedCopy returns a copy with errors converted to strings for JSON.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		ID:              r.ID,
		Start:           r.Start,
		End:             r.End,
		Posts:           r.Posts,
		Published:       r.Published,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  make(map[string]float64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
		Artifacts:       slices.Sorted(slices.Values(r.Artifacts)),
		ImagesRendered:  r.ImagesRendered,
		ImagesSkipped:   r.ImagesSkipped,
		SnapshotWritten: r.SnapshotWritten,
		Outcome:         string(r.Outcome),
		FolioVersion:    r.FolioVersion,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurations[string(k)] = float64(v.Microseconds()) / 1000
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	if s.Artifacts == nil {
		s.Artifacts = []string{}
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion   int                   `json:"schema_version"`
	ID              string                `json:"id"`
	Start           time.Time             `json:"start"`
	End             time.Time             `json:"end"`
	Posts           int                   `json:"posts"`
	Published       int                   `json:"published"`
	Errors          []string              `json:"errors"`
	Warnings        []string              `json:"warnings"`
	StageDurations  map[string]float64    `json:"stage_durations_ms"`
	StageErrorKinds map[string]string     `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount `json:"stage_counts"`
	Artifacts       []string              `json:"artifacts"`
	ImagesRendered  int                   `json:"images_rendered"`
	ImagesSkipped   int                   `json:"images_skipped"`
	SnapshotWritten bool                  `json:"snapshot_written"`
	Outcome         string                `json:"outcome"`
	FolioVersion    string                `json:"folio_version,omitempty"`
}
