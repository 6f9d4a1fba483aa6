// Package config holds the run configuration: site location, HTTP behavior,
// layout constants, and output artifact names. Defaults mirror the values the
// scraper was tuned with; an optional YAML file overlays them and CLI flags
// override both.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config is the single-file configuration schema.
type Config struct {
	Site struct {
		// BaseURL is the scheme+host the section pages and relative image
		// references resolve against.
		BaseURL string `yaml:"baseURL"`
		// PagePath is a printf template with one %d for the page number.
		PagePath string `yaml:"pagePath"`
	} `yaml:"site"`

	HTTP struct {
		UserAgent       string        `yaml:"userAgent"`
		PageTimeout     time.Duration `yaml:"pageTimeout"`
		DownloadTimeout time.Duration `yaml:"downloadTimeout"`
		// MaxAttempts includes the initial attempt. Minimum 1.
		MaxAttempts int `yaml:"maxAttempts"`
		// Backoff is the base of the linear retry delay (base × attempt).
		Backoff time.Duration `yaml:"backoff"`
	} `yaml:"http"`

	Layout struct {
		Title string `yaml:"title"`
		// AssumedDPI converts image pixels to millimetres in multi-image rows.
		// A heuristic, not a read of per-image metadata.
		AssumedDPI float64 `yaml:"assumedDPI"`
		// NativeDPI sizes the single full-width placement mode when the image
		// carries no usable density metadata.
		NativeDPI float64 `yaml:"nativeDPI"`
		// MinImageWidthMM is the legibility floor; images are never rendered
		// narrower than this, even at the cost of horizontal overflow.
		MinImageWidthMM float64 `yaml:"minImageWidthMM"`
		RowGapMM        float64 `yaml:"rowGapMM"`
		ColGapMM        float64 `yaml:"colGapMM"`
	} `yaml:"layout"`

	Output struct {
		JSONName     string `yaml:"jsonName"`
		PDFName      string `yaml:"pdfName"`
		MarkdownName string `yaml:"markdownName"`
	} `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Site.BaseURL = "https://free-braindumps.com"
	c.Site.PagePath = "/comptia/free-sy0-701-braindumps/page-%d"

	c.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"
	c.HTTP.PageTimeout = 30 * time.Second
	c.HTTP.DownloadTimeout = 45 * time.Second
	c.HTTP.MaxAttempts = 3
	c.HTTP.Backoff = 1500 * time.Millisecond

	c.Layout.Title = "Free CompTIA SY0-701 Practice Questions"
	c.Layout.AssumedDPI = 60
	c.Layout.NativeDPI = 96
	c.Layout.MinImageWidthMM = 85
	c.Layout.RowGapMM = 5
	c.Layout.ColGapMM = 5

	c.Output.JSONName = "sy0-701_questions.json"
	c.Output.PDFName = "comptia_sy0-701_past_questions.pdf"
	c.Output.MarkdownName = "sy0-701_questions.md"
	return c
}

// Load returns Default overlaid with the YAML file at path. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return c, nil
}
