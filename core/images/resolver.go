// Package images implements the ImageResolver interface.
// It maps remote image references onto a local cache directory, downloading
// through the shared fetch client. Downloads are idempotent: an existing
// non-empty file is reused, so interrupted runs resume cheaply.
package images

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	// Decoders for the formats the site serves. gofpdf can only embed a
	// subset of these; Renderable gates placement.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/quizbook/core"
)

// Resolver downloads and caches images referenced by Records.
type Resolver struct {
	fetcher core.Fetcher
	base    *url.URL
	dir     string
}

// New creates a Resolver caching into dir. Relative references resolve
// against baseURL.
func New(fetcher core.Fetcher, baseURL string, dir string) (*Resolver, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Resolver{fetcher: fetcher, base: base, dir: dir}, nil
}

// Resolve returns a local path for ref, downloading it under a filename
// derived from prefix when not already cached.
func (r *Resolver) Resolve(ctx context.Context, ref string, prefix string) (string, error) {
	abs, err := r.absolute(ref)
	if err != nil {
		return "", err
	}

	ext := path.Ext(abs.Path)
	if ext == "" {
		ext = ".jpg"
	}
	dest := filepath.Join(r.dir, Sanitize(prefix+ext))

	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		log.Debug().Str("path", dest).Msg("image already cached")
		return dest, nil
	}

	if err := r.fetcher.Download(ctx, abs.String(), dest); err != nil {
		return "", err
	}
	log.Debug().Str("url", abs.String()).Str("path", dest).Msg("image downloaded")
	return dest, nil
}

// absolute resolves ref against the configured base URL when it has no scheme.
func (r *Resolver) absolute(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parsing image reference %q: %w", ref, err)
	}
	if parsed.IsAbs() {
		return parsed, nil
	}
	return r.base.ResolveReference(parsed), nil
}

// Dimensions returns the pixel size of the image at path without decoding
// the full image.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// renderableExts are the formats gofpdf can embed.
var renderableExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
}

// Renderable reports whether the file at path can be embedded in the PDF.
func Renderable(path string) bool {
	return renderableExts[strings.ToLower(filepath.Ext(path))]
}

var (
	unsafeChars  = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// Sanitize converts an arbitrary string into a safe flat filename.
func Sanitize(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscoreRe.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}
