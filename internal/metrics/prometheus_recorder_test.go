package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("load_content", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("load_content", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetPosts(4, 3)
	pr.IncImageResult(ImageRendered)
	pr.IncImageResult(ImageRendered)
	pr.IncImageResult(ImageSkipped)
	pr.ObserveArtifactSize("rss", 2048)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	body := scrape(t, reg)
	assert.Contains(t, body, `folio_og_images_total{result="rendered"} 2`)
	assert.Contains(t, body, `folio_posts{visibility="public"} 3`)
	assert.Contains(t, body, `folio_stage_results_total{result="success",stage="load_content"} 1`)
	assert.Contains(t, body, `folio_artifact_bytes{artifact="rss"} 2048`)
}

func scrape(t *testing.T, reg *prom.Registry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrape.prom")
	require.NoError(t, WriteTextfile(reg, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("x", time.Second)
	pr.IncBuildOutcome(BuildOutcomeFailed)
	pr.SetPosts(1, 1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(BuildOutcomeWarning)

	path := filepath.Join(t.TempDir(), "folio.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `folio_build_outcomes_total{outcome="warning"} 1`)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncImageResult(ImageFailed)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `folio_og_images_total{result="failed"} 1`))
}
