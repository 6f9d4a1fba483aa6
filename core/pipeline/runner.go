// Package pipeline orchestrates the scrape: fetch each listing page in the
// configured range, extract its records, and accumulate them in page order.
// Strictly sequential; a page that cannot be fetched or parsed is skipped, it
// never aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/quizbook/core"
)

// Runner walks a bounded, inclusive page range through fetch and extract.
type Runner struct {
	Fetcher   core.Fetcher
	Extractor core.Extractor
	// BaseURL is the site root; PagePath is a printf template with one %d
	// for the page number.
	BaseURL  string
	PagePath string
	// Delay separates consecutive page fetches.
	Delay time.Duration
}

// Run fetches and extracts pages startPage..endPage and returns the combined
// record sequence in extraction order. Records gathered before a context
// cancellation are returned alongside the context error.
func (r *Runner) Run(ctx context.Context, startPage, endPage int) ([]core.Record, error) {
	if startPage < 1 || endPage < startPage {
		return nil, fmt.Errorf("invalid page range %d..%d", startPage, endPage)
	}

	var all []core.Record
	for page := startPage; page <= endPage; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		pageURL, err := r.pageURL(page)
		if err != nil {
			return all, err
		}

		log.Info().Int("page", page).Str("url", pageURL).Msg("fetching page")
		html, err := r.Fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			log.Warn().Int("page", page).Err(err).Msg("page unavailable, skipping")
			continue
		}

		records, err := r.Extractor.ExtractPage(html, page)
		if err != nil {
			log.Warn().Int("page", page).Err(err).Msg("page unparseable, skipping")
			continue
		}

		all = append(all, records...)
		log.Info().Int("page", page).Int("records", len(records)).Msg("page extracted")

		if r.Delay > 0 && page < endPage {
			t := time.NewTimer(r.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return all, ctx.Err()
			case <-t.C:
			}
		}
	}
	return all, nil
}

// pageURL builds the listing URL for a page number.
func (r *Runner) pageURL(page int) (string, error) {
	base, err := url.Parse(r.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	ref, err := url.Parse(fmt.Sprintf(r.PagePath, page))
	if err != nil {
		return "", fmt.Errorf("building page path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
