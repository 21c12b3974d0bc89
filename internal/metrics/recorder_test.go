package metrics

import (
	"sync"
	"testing"
	"time"
)

// testRecorder counts calls.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	images         map[ImageResultLabel]int
}

var _ Recorder = (*testRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
		images:         map[ImageResultLabel]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) ObserveBuildDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}

func (t *testRecorder) SetPosts(int, int) {}

func (t *testRecorder) IncImageResult(result ImageResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images[result]++
}

func (t *testRecorder) ObserveArtifactSize(string, int) {}

func record(r Recorder) {
	r.ObserveStageDuration("generate_rss", time.Millisecond)
	r.IncStageResult("generate_rss", ResultSuccess)
	r.IncImageResult(ImageSkipped)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.ObserveBuildDuration(time.Millisecond)
}

func TestRecorderImplementations(t *testing.T) {
	record(NoopRecorder{})

	tr := newTestRecorder()
	record(tr)
	if tr.stageDurations["generate_rss"] != 1 || tr.stageResults["generate_rss"][ResultSuccess] != 1 {
		t.Fatalf("unexpected stage counts: %+v %+v", tr.stageDurations, tr.stageResults)
	}
	if tr.images[ImageSkipped] != 1 || tr.buildOutcomes[BuildOutcomeSuccess] != 1 || tr.buildDurations != 1 {
		t.Fatalf("unexpected counts: %+v %+v %d", tr.images, tr.buildOutcomes, tr.buildDurations)
	}
}
