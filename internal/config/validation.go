package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validateSite,
		cv.validateContent,
		cv.validatePaths,
		cv.validateOG,
		cv.validateBuild,
	} {
		if err := check(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	s := cv.config.Site
	if s.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL, got %q", s.BaseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("site.base_url must not carry a query or fragment")
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	c := cv.config.Content
	if c.WordsPerMinute <= 0 {
		return fmt.Errorf("content.words_per_minute must be positive, got %d", c.WordsPerMinute)
	}
	for _, ext := range c.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("content.extensions contains an empty entry")
		}
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	cfg := cv.config
	content := filepath.Clean(cfg.Content.Dir)
	output := filepath.Clean(cfg.Output.Dir)
	if content == output {
		return fmt.Errorf("content.dir and output.dir must differ (both %q)", content)
	}
	if filepath.IsAbs(cfg.Feeds.RSS.Path) || filepath.IsAbs(cfg.Feeds.Sitemap.Path) || filepath.IsAbs(cfg.Feeds.Robots.Path) {
		return fmt.Errorf("feed paths must be relative to output.dir")
	}
	if filepath.IsAbs(cfg.OG.Dir) {
		return fmt.Errorf("og.dir must be relative to output.dir")
	}
	return nil
}

func (cv *configurationValidator) validateOG() error {
	og := cv.config.OG
	// Stale cards are pruned from og.dir, so it must be a dedicated subdirectory.
	if dir := filepath.Clean(og.Dir); dir == "." || dir == ".." || strings.HasPrefix(dir, ".."+string(filepath.Separator)) {
		return fmt.Errorf("og.dir must be a subdirectory of output.dir, got %q", og.Dir)
	}
	if og.MaxLineChars < 8 {
		return fmt.Errorf("og.max_line_chars must be at least 8, got %d", og.MaxLineChars)
	}
	colors := []struct{ name, value string }{
		{"background", og.Colors.Background},
		{"foreground", og.Colors.Foreground},
		{"accent", og.Colors.Accent},
		{"muted", og.Colors.Muted},
	}
	for _, c := range colors {
		if !hexColorRe.MatchString(c.value) {
			return fmt.Errorf("og.colors.%s must be a hex color, got %q", c.name, c.value)
		}
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	if cv.config.Build.IORetries > 5 {
		return fmt.Errorf("build.io_retries must be at most 5, got %d", cv.config.Build.IORetries)
	}
	return nil
}
