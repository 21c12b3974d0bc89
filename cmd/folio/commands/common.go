package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/folio/internal/config"
	ferrors "git.home.luguber.info/inful/folio/internal/foundation/errors"
	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/metrics"
	"git.home.luguber.info/inful/folio/internal/site"
	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "FOLIO_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	// Out receives user-facing output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"folio.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Load content and write posts.json, feeds, robots.txt and OG images"`
	Metadata MetadataCmd `cmd:"" help:"Load content and write posts.json only"`
	RSS      RSSCmd      `cmd:"" name:"rss" help:"Write the RSS feed from posts.json"`
	Sitemap  SitemapCmd  `cmd:"" help:"Write sitemap.xml from posts.json"`
	Robots   RobotsCmd   `cmd:"" help:"Write robots.txt"`
	OG       OGCmd       `cmd:"" name:"og" help:"Render Open Graph images from posts.json"`
	Validate ValidateCmd `cmd:"" help:"Check that posts.json matches the content directory"`
	Schema   SchemaCmd   `cmd:"" help:"Print the JSON-LD script tag for a post"`
	Preview  PreviewCmd  `cmd:"" help:"Serve the output directory and rebuild on content changes"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// logLevel resolves the handler level: FOLIO_LOG_LEVEL wins over --verbose.
func logLevel(verbose bool) slog.Level {
	if raw, ok := os.LookupEnv(LogLevelEnv); ok && raw != "" {
		return config.NormalizeLogLevel(raw).SlogLevel()
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadConfig reads the configuration file and classifies failures.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
			WithContext("path", path).
			Build()
	}
	if _, ok := os.LookupEnv(LogLevelEnv); !ok && cfg.Logging.Level != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.Level.SlogLevel()})))
	}
	return cfg, nil
}

// session bundles a builder with the Prometheus registry its recorder feeds.
type session struct {
	cfg      *config.Config
	builder  *site.Builder
	registry *prom.Registry
}

func newSession(root *CLI) (*session, error) {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return nil, err
	}
	reg := prom.NewRegistry()
	b := site.NewBuilder(cfg, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	return &session{cfg: cfg, builder: b, registry: reg}, nil
}

// flushMetrics writes the textfile export when build.metrics_file is set.
// Export failures are logged and never change the command's result.
func (s *session) flushMetrics() {
	path := s.cfg.MetricsPath()
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(s.registry, path); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}

// finish logs the report summary and returns the build error.
func (s *session) finish(report *site.BuildReport, err error) error {
	s.flushMetrics()
	if report != nil {
		if err != nil {
			slog.Error("Build failed", "summary", report.Summary())
		} else {
			slog.Info("Build complete", "summary", report.Summary())
		}
	}
	return err
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
