// Package cmd — scrape command.
// This is the main command that orchestrates the pipeline:
// page range → fetch → extract → serialize JSON → render PDF → write.
//
// Page fetches and image downloads are the only network activity; both are
// retried internally and failures degrade (page skipped, image omitted)
// rather than aborting the run.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/quizbook/core/config"
	"github.com/gaurav-prasanna/quizbook/core/extract"
	"github.com/gaurav-prasanna/quizbook/core/fetch"
	"github.com/gaurav-prasanna/quizbook/core/images"
	"github.com/gaurav-prasanna/quizbook/core/output"
	"github.com/gaurav-prasanna/quizbook/core/pipeline"
	"github.com/gaurav-prasanna/quizbook/core/render"
)

// Flag variables.
var (
	flagStart     int
	flagEnd       int
	flagOutDir    string
	flagImagesDir string
	flagDelay     float64
	flagConfig    string
	flagTitle     string
	flagMarkdown  bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a page range and write the JSON and PDF artifacts",
	Long: `Scrape fetches each listing page in the range, extracts its questions into
typed records, then writes the full sequence as JSON and renders it into a
paginated PDF with embedded images.

Examples:
  quizbook scrape --start 1 --end 3
  quizbook scrape --start 1 --end 10 --out_dir out --images_dir images --delay 1
  quizbook scrape --config site.yaml --markdown`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVar(&flagStart, "start", 1, "Start page (inclusive)")
	scrapeCmd.Flags().IntVar(&flagEnd, "end", 3, "End page (inclusive)")
	scrapeCmd.Flags().StringVar(&flagOutDir, "out_dir", "out", "Output directory for JSON/PDF")
	scrapeCmd.Flags().StringVar(&flagImagesDir, "images_dir", "images", "Directory to cache downloaded images")
	scrapeCmd.Flags().Float64Var(&flagDelay, "delay", 0.5, "Delay in seconds between page fetches")
	scrapeCmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	scrapeCmd.Flags().StringVar(&flagTitle, "title", "", "Document title (overrides config)")
	scrapeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Also write a Markdown study sheet")
}

func runScrape(cmd *cobra.Command, args []string) error {
	if flagStart < 1 || flagEnd < flagStart {
		return fmt.Errorf("invalid page range: start=%d end=%d", flagStart, flagEnd)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagTitle != "" {
		cfg.Layout.Title = flagTitle
	}

	// Initialize pipeline components. The fetch client is built once and
	// shared by page fetches and image downloads.
	client := fetch.New(fetch.Options{
		UserAgent:       cfg.HTTP.UserAgent,
		PageTimeout:     cfg.HTTP.PageTimeout,
		DownloadTimeout: cfg.HTTP.DownloadTimeout,
		MaxAttempts:     cfg.HTTP.MaxAttempts,
		Backoff:         cfg.HTTP.Backoff,
	})

	runner := &pipeline.Runner{
		Fetcher:   client,
		Extractor: extract.New(),
		BaseURL:   cfg.Site.BaseURL,
		PagePath:  cfg.Site.PagePath,
		Delay:     time.Duration(flagDelay * float64(time.Second)),
	}

	writer, err := output.New(flagOutDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	resolver, err := images.New(client, cfg.Site.BaseURL, flagImagesDir)
	if err != nil {
		return fmt.Errorf("initializing image resolver: %w", err)
	}

	ctx := context.Background()

	records, err := runner.Run(ctx, flagStart, flagEnd)
	if err != nil {
		return err
	}

	// Serialize the full sequence once.
	jsonData, err := render.NewJSONSerializer().Serialize(records)
	if err != nil {
		return err
	}
	jsonPath, err := writer.Write(cfg.Output.JSONName, jsonData)
	if err != nil {
		return err
	}

	// Render the PDF once from the same sequence.
	layout := render.LayoutOptions{
		Title:           cfg.Layout.Title,
		AssumedDPI:      cfg.Layout.AssumedDPI,
		NativeDPI:       cfg.Layout.NativeDPI,
		MinImageWidthMM: cfg.Layout.MinImageWidthMM,
		RowGapMM:        cfg.Layout.RowGapMM,
		ColGapMM:        cfg.Layout.ColGapMM,
	}
	pdfData, err := render.NewPDFRenderer(resolver, layout).Render(ctx, records)
	if err != nil {
		return err
	}
	pdfPath, err := writer.Write(cfg.Output.PDFName, pdfData)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", jsonPath)
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", pdfPath)

	if flagMarkdown {
		mdData, err := render.NewMarkdownRenderer(cfg.Layout.Title).Render(ctx, records)
		if err != nil {
			return err
		}
		mdPath, err := writer.Write(cfg.Output.MarkdownName, mdData)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", mdPath)
	}

	return nil
}
