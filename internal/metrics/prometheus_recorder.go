package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "folio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	stageResults   *prom.CounterVec
	buildOutcome   *prom.CounterVec
	posts          *prom.GaugeVec
	imageResults   *prom.CounterVec
	artifactSize   *prom.GaugeVec
	lastBuildStamp prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		posts: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Posts loaded by the last build",
		}, []string{"visibility"}),
		imageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "og_images_total",
			Help:      "OG images by outcome",
		}, []string{"result"}),
		artifactSize: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      "Size of generated artifacts from the last build",
		}, []string{"artifact"}),
		lastBuildStamp: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time the last build finished",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.posts, pr.imageResults, pr.artifactSize, pr.lastBuildStamp)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
	p.lastBuildStamp.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPosts(total, published int) {
	if p == nil {
		return
	}
	p.posts.WithLabelValues("all").Set(float64(total))
	p.posts.WithLabelValues("public").Set(float64(published))
}

func (p *PrometheusRecorder) IncImageResult(result ImageResultLabel) {
	if p == nil {
		return
	}
	p.imageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveArtifactSize(artifact string, bytes int) {
	if p == nil {
		return
	}
	p.artifactSize.WithLabelValues(artifact).Set(float64(bytes))
}
