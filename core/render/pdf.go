// Package render — PDF renderer.
// Lays the record sequence out as a paginated A4 document using gofpdf:
// running title header, "Page N/total" footer, and one self-contained block
// per record (prompt, images, choices, answer material, separator). Image
// rows are packed by pack.go and placed with explicit page-break checks.
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/quizbook/core"
	"github.com/gaurav-prasanna/quizbook/core/images"
	"github.com/gaurav-prasanna/quizbook/core/textenc"
)

// LayoutOptions carries the geometry and title for the PDF document.
type LayoutOptions struct {
	Title           string
	AssumedDPI      float64
	NativeDPI       float64
	MinImageWidthMM float64
	RowGapMM        float64
	ColGapMM        float64
}

// PDFRenderer renders the record sequence as a paginated PDF.
type PDFRenderer struct {
	resolver core.ImageResolver
	opts     LayoutOptions
}

// NewPDFRenderer creates a PDFRenderer that resolves image references
// through resolver.
func NewPDFRenderer(resolver core.ImageResolver, opts LayoutOptions) *PDFRenderer {
	return &PDFRenderer{resolver: resolver, opts: opts}
}

// Render builds the document. Unresolvable images are omitted with a warning;
// nothing short of a gofpdf output failure aborts rendering.
func (r *PDFRenderer) Render(ctx context.Context, records []core.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := textenc.Normalize(r.opts.Title)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for i, rec := range records {
		r.renderRecord(ctx, pdf, tr, i+1, rec)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderRecord writes one record's block: prompt, prompt images, choices,
// correct-answer line, answer key, explanation, explanation images, separator.
func (r *PDFRenderer) renderRecord(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, globalIndex int, rec core.Record) {
	writeText(pdf, tr, fmt.Sprintf("Q%d: %s", globalIndex, rec.PromptText), true, 11)

	r.placeImages(ctx, pdf, rec.PromptImages,
		fmt.Sprintf("q%d-%d-qimg", rec.PageNumber, rec.OrdinalOnPage))

	for idx, choice := range rec.Choices {
		writeText(pdf, tr, core.ChoiceLetter(idx)+". "+choice, false, 10)
	}

	if rec.CorrectLetter != nil {
		writeText(pdf, tr, "Correct Answer: "+*rec.CorrectLetter, true, 11)
	}
	if rec.AnswerText != nil {
		writeText(pdf, tr, "Answer(s): "+*rec.AnswerText, false, 10)
	}
	if rec.ExplanationText != nil {
		writeText(pdf, tr, "Explanation:", true, 10)
		writeText(pdf, tr, *rec.ExplanationText, false, 10)
	}

	r.placeImages(ctx, pdf, rec.ExplanationImages,
		fmt.Sprintf("q%d-%d-eimg", rec.PageNumber, rec.OrdinalOnPage))

	// Separator line between records.
	pdf.Ln(1)
	y := pdf.GetY()
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(left, y, pageW-right, y)
	pdf.Ln(3)
}

// placeImages resolves, packs, and places one record's image group. Each row
// is checked against the remaining vertical space before placement; after the
// group the cursor advances past the tallest row plus a fixed gap.
func (r *PDFRenderer) placeImages(ctx context.Context, pdf *gofpdf.Fpdf, refs []string, prefix string) {
	if len(refs) == 0 {
		return
	}

	var sources []SourceImage
	for idx, ref := range refs {
		path, err := r.resolver.Resolve(ctx, ref, fmt.Sprintf("%s%d", prefix, idx+1))
		if err != nil {
			log.Warn().Str("ref", ref).Err(err).Msg("image unavailable, omitting")
			continue
		}
		if !images.Renderable(path) {
			log.Warn().Str("path", path).Msg("image format not embeddable, omitting")
			continue
		}
		w, h, err := images.Dimensions(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("image unreadable, omitting")
			continue
		}
		sources = append(sources, SourceImage{Path: path, PxWidth: w, PxHeight: h})
	}
	if len(sources) == 0 {
		return
	}

	left, _, right, bottom := pdf.GetMargins()
	pageW, pageH := pdf.GetPageSize()
	opt := PackOptions{
		ContentWidth: pageW - left - right,
		MinWidth:     r.opts.MinImageWidthMM,
		ColGap:       r.opts.ColGapMM,
		AssumedDPI:   r.opts.AssumedDPI,
		NativeDPI:    r.opts.NativeDPI,
	}

	for _, row := range PackRows(sources, opt) {
		if pdf.GetY()+row.Height+r.opts.RowGapMM > pageH-bottom {
			pdf.AddPage()
		}
		if row.Overflow {
			log.Warn().
				Float64("rowWidth", row.Width(opt.ColGap)).
				Float64("contentWidth", opt.ContentWidth).
				Msg("image row exceeds content width at minimum legible size")
		}

		x := left
		y := pdf.GetY()
		for _, img := range row.Images {
			pdf.Image(img.Path, x, y, img.Width, img.Height, false, "", 0, "")
			x += img.Width + opt.ColGap
		}
		pdf.SetY(y + row.Height + r.opts.RowGapMM)
		pdf.SetX(left)
	}
}

// writeText writes a wrapped text line through the normalization step.
func writeText(pdf *gofpdf.Fpdf, tr func(string) string, text string, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, size)
	pdf.MultiCell(0, 6, tr(textenc.Normalize(text)), "", "L", false)
	pdf.Ln(1)
}
