package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/folio/internal/feeds"
	"git.home.luguber.info/inful/folio/internal/metrics"
)

func TestHandlerServesFeedsWithCachePolicy(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rss.xml"), []byte("<rss/>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("User-agent: *\n"), 0o600))

	status := &Status{}
	status.setSuccess(time.Now())
	h := NewHandler(dir, prom.NewRegistry(), status)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, feeds.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, feeds.CacheControl, rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<rss/>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestHandlerMetricsAndHealth(t *testing.T) {
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).SetPosts(3, 2)
	status := &Status{}
	h := NewHandler(t.TempDir(), reg, status)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "folio_")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	status.setError(errors.New("boom"), time.Now())
	status.setSuccess(time.Now())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"builds":2`)
}

func TestRebuilderCoalescesRequests(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	status := &Status{}
	rb := NewRebuilder(func(context.Context) error {
		if calls.Add(1) == 1 {
			<-release
		}
		return nil
	}, status)

	ctx := context.Background()
	rb.Request(ctx, "first")
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	for range 5 {
		rb.Request(ctx, "burst")
	}
	close(release)
	rb.Wait()

	assert.Equal(t, int32(2), calls.Load(), "a burst during a build yields one follow-up")
	_, good, builds := status.Snapshot()
	assert.True(t, good)
	assert.Equal(t, 2, builds)
}

func TestRebuilderRecordsFailure(t *testing.T) {
	status := &Status{}
	rb := NewRebuilder(func(context.Context) error { return errors.New("broken") }, status)
	require.Error(t, rb.RunNow(context.Background(), "test"))
	lastErr, good, _ := status.Snapshot()
	assert.EqualError(t, lastErr, "broken")
	assert.False(t, good)
}

func TestDebouncerFiresOncePerBurst(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	d := NewDebouncer(20*time.Millisecond, func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	for range 10 {
		d.Trigger()
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, fired)
	mu.Unlock()
}

func TestDebouncerStopCancelsPendingAndLaterTriggers(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { fired.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"/c/post.md":       false,
		"/c/.post.md.swp":  true,
		"/c/post.md~":      true,
		"/c/#post.md#":     true,
		"/c/.DS_Store":     true,
		"/c/nested/new.md": false,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}
