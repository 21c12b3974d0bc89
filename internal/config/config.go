package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only accepted value of the top-level version key.
const CurrentVersion = "1"

// DefaultConfigFile is used when no --config flag is given.
const DefaultConfigFile = "folio.yaml"

// Config is the root of folio.yaml.
type Config struct {
	Version string        `yaml:"version"`
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Feeds   FeedsConfig   `yaml:"feeds"`
	OG      OGConfig      `yaml:"og"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// SiteConfig describes the public site the artifacts are generated for.
type SiteConfig struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	BaseURL     string      `yaml:"base_url"`
	Language    string      `yaml:"language"`
	BlogPath    string      `yaml:"blog_path"`
	Owner       OwnerConfig `yaml:"owner"`
}

// OwnerConfig is the site owner; it backs the Person schema and the default post author.
type OwnerConfig struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	JobTitle string   `yaml:"job_title"`
	Image    string   `yaml:"image"`
	SameAs   []string `yaml:"same_as"`
}

// ContentConfig controls how content documents are discovered and interpreted.
type ContentConfig struct {
	Dir              string   `yaml:"dir"`
	Extensions       []string `yaml:"extensions"`
	PublishedDefault bool     `yaml:"published_default"`
	IncludeDrafts    bool     `yaml:"include_drafts"`
	WordsPerMinute   int      `yaml:"words_per_minute"`
	GitLastmod       bool     `yaml:"git_lastmod"`
}

// OutputConfig controls where generated artifacts land.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Snapshot   string `yaml:"snapshot"`
	Report     bool   `yaml:"report"`
	ReportFile string `yaml:"report_file"`
}

// FeedsConfig groups the XML/text generators.
type FeedsConfig struct {
	RSS     RSSConfig     `yaml:"rss"`
	Sitemap SitemapConfig `yaml:"sitemap"`
	Robots  RobotsConfig  `yaml:"robots"`
}

type RSSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Limit caps the number of items; 0 means every published post.
	Limit int `yaml:"limit"`
}

type SitemapConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type RobotsConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Path     string   `yaml:"path"`
	Crawlers []string `yaml:"crawlers"`
}

// OGConfig controls Open Graph image rendering.
type OGConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Dir          string        `yaml:"dir"`
	SiteImage    string        `yaml:"site_image"`
	SiteFormats  []ImageFormat `yaml:"site_formats"`
	MaxLineChars int           `yaml:"max_line_chars"`
	MaxLines     int           `yaml:"max_lines"`
	WriteSVG     bool          `yaml:"write_svg"`
	Colors       ColorsConfig  `yaml:"colors"`
}

// ColorsConfig holds hex colors (#rgb or #rrggbb) used by the card template.
type ColorsConfig struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Accent     string `yaml:"accent"`
	Muted      string `yaml:"muted"`
}

// BuildConfig controls execution of the pipeline.
type BuildConfig struct {
	Parallel    bool   `yaml:"parallel"`
	IORetries   int    `yaml:"io_retries"`
	MetricsFile string `yaml:"metrics_file"`
}

type LoggingConfig struct {
	Level LogLevel `yaml:"level"`
}

// Default returns a configuration with every default applied and no base URL.
// Boolean switches that default to true are set here so that YAML decoded on top
// of it keeps them unless the file says otherwise.
func Default() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		Output:  OutputConfig{Report: true},
		Feeds: FeedsConfig{
			RSS:     RSSConfig{Enabled: true},
			Sitemap: SitemapConfig{Enabled: true},
			Robots:  RobotsConfig{Enabled: true},
		},
		OG:    OGConfig{Enabled: true},
		Build: BuildConfig{Parallel: true, IORetries: 1},
	}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

// Load reads folio.yaml from configPath, expands ${VAR} references, applies
// defaults, resolves relative paths against the file's directory and validates.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		slog.Debug("No .env files loaded", "error", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path comes from the CLI flag
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	cfg.baseDir = abs
	return cfg, nil
}

// Parse decodes a configuration document (already env-expanded), applies
// defaults and validates. Relative paths resolve against the working directory.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Version = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)
	}

	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// WithBaseDir returns a shallow copy whose relative paths resolve against dir.
func (c *Config) WithBaseDir(dir string) *Config {
	cp := *c
	cp.baseDir = dir
	return &cp
}

// BaseDir returns the directory relative paths resolve against.
func (c *Config) BaseDir() string { return c.baseDir }

// Resolve turns a configured path into a filesystem path.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if c.baseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(c.baseDir, p)
}

// ContentDir is the resolved content.dir.
func (c *Config) ContentDir() string { return c.Resolve(c.Content.Dir) }

// OutputDir is the resolved output.dir.
func (c *Config) OutputDir() string { return c.Resolve(c.Output.Dir) }

// OutputPath resolves an artifact path relative to output.dir.
func (c *Config) OutputPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.OutputDir(), filepath.FromSlash(rel))
}

// SnapshotPath is the resolved location of posts.json.
func (c *Config) SnapshotPath() string { return c.OutputPath(c.Output.Snapshot) }

// ReportPath is the resolved location of the build report.
func (c *Config) ReportPath() string { return c.OutputPath(c.Output.ReportFile) }

// MetricsPath is the resolved Prometheus textfile path, or "" when disabled.
func (c *Config) MetricsPath() string { return c.Resolve(c.Build.MetricsFile) }

// URL joins a site-relative path onto the base URL. An empty path yields the
// base URL with a trailing slash (the home page).
func (s SiteConfig) URL(p string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return base + "/"
	}
	return base + "/" + p
}

// BlogURL is the absolute URL of the blog index.
func (s SiteConfig) BlogURL() string { return s.URL(s.BlogPath) }

// PostURL is the absolute, canonical URL of a post.
func (s SiteConfig) PostURL(slug string) string {
	return s.URL(path.Join(strings.Trim(s.BlogPath, "/"), slug))
}

// ErrInvalidConfig marks a configuration rejected by validation.
var ErrInvalidConfig = errors.New("invalid configuration")
