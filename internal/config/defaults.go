package config

import (
	"fmt"
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// DefaultCrawlers are the user agents explicitly allowed by robots.txt.
var DefaultCrawlers = []string{
	"GPTBot",
	"ChatGPT-User",
	"OAI-SearchBot",
	"ClaudeBot",
	"Claude-Web",
	"anthropic-ai",
	"PerplexityBot",
	"Google-Extended",
	"Googlebot",
	"Bingbot",
	"Applebot",
	"CCBot",
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&ContentDefaultApplier{},
			&OutputDefaultApplier{},
			&FeedsDefaultApplier{},
			&OGDefaultApplier{},
			&BuildDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns a specific domain applier.
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}

type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	s := &cfg.Site
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.Language == "" {
		s.Language = "en-us"
	}
	if strings.Trim(s.BlogPath, "/ ") == "" {
		s.BlogPath = "/blog"
	} else {
		s.BlogPath = "/" + strings.Trim(strings.TrimSpace(s.BlogPath), "/")
	}
	if s.Owner.URL == "" {
		s.Owner.URL = s.BaseURL
	}
	if s.Title == "" {
		s.Title = s.Owner.Name
	}
	return nil
}

type ContentDefaultApplier struct{}

func (ContentDefaultApplier) Domain() string { return "content" }

func (ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	c := &cfg.Content
	if c.Dir == "" {
		c.Dir = "content/blog"
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".md", ".mdx", ".markdown"}
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.WordsPerMinute == 0 {
		c.WordsPerMinute = 200
	}
	return nil
}

type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	o := &cfg.Output
	if o.Dir == "" {
		o.Dir = "public"
	}
	if o.Snapshot == "" {
		o.Snapshot = "posts.json"
	}
	if o.ReportFile == "" {
		o.ReportFile = "build-report.json"
	}
	return nil
}

type FeedsDefaultApplier struct{}

func (FeedsDefaultApplier) Domain() string { return "feeds" }

func (FeedsDefaultApplier) ApplyDefaults(cfg *Config) error {
	f := &cfg.Feeds
	if f.RSS.Path == "" {
		f.RSS.Path = "rss.xml"
	}
	if f.RSS.Limit < 0 {
		f.RSS.Limit = 0
	}
	if f.Sitemap.Path == "" {
		f.Sitemap.Path = "sitemap.xml"
	}
	if f.Robots.Path == "" {
		f.Robots.Path = "robots.txt"
	}
	if f.Robots.Crawlers == nil {
		f.Robots.Crawlers = append([]string(nil), DefaultCrawlers...)
	}
	return nil
}

type OGDefaultApplier struct{}

func (OGDefaultApplier) Domain() string { return "og" }

func (OGDefaultApplier) ApplyDefaults(cfg *Config) error {
	og := &cfg.OG
	if og.Dir == "" {
		og.Dir = "og/blog"
	}
	if og.SiteImage == "" {
		og.SiteImage = "og-image"
	}
	if len(og.SiteFormats) == 0 {
		og.SiteFormats = []ImageFormat{ImageFormatPNG, ImageFormatWebP}
	}
	for i, f := range og.SiteFormats {
		norm, err := NormalizeImageFormat(string(f))
		if err != nil {
			return err
		}
		og.SiteFormats[i] = norm
	}
	if og.MaxLineChars <= 0 {
		og.MaxLineChars = 28
	}
	if og.MaxLines <= 0 {
		og.MaxLines = 3
	}
	if og.Colors.Background == "" {
		og.Colors.Background = "#0f172a"
	}
	if og.Colors.Foreground == "" {
		og.Colors.Foreground = "#f8fafc"
	}
	if og.Colors.Accent == "" {
		og.Colors.Accent = "#38bdf8"
	}
	if og.Colors.Muted == "" {
		og.Colors.Muted = "#94a3b8"
	}
	return nil
}

type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.IORetries < 0 {
		cfg.Build.IORetries = 0
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	return nil
}
