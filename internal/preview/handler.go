package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/folio/internal/feeds"
	"git.home.luguber.info/inful/folio/internal/metrics"
)

// NewHandler serves outDir, applying the feed cache policy to XML files, plus
// /metrics for reg and /healthz for status.
func NewHandler(outDir string, reg *prom.Registry, status *Status) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		lastErr, good, builds := status.Snapshot()
		body := map[string]any{"builds": builds, "ok": lastErr == nil}
		if lastErr != nil {
			body["error"] = lastErr.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		if !good {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	mux.Handle("/", feedHeaders(http.FileServer(http.Dir(outDir))))
	return mux
}

// feedHeaders sets the XML content type and cache policy on feed responses
// before the file server writes them.
func feedHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(path.Ext(r.URL.Path), ".xml") {
			w.Header().Set("Content-Type", feeds.ContentType)
			w.Header().Set("Cache-Control", feeds.CacheControl)
		}
		next.ServeHTTP(w, r)
	})
}
