// Package render — Markdown renderer.
// Emits the record sequence as a Markdown study sheet, mirroring the PDF's
// per-record block order. Images stay as reference links; no downloads.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/quizbook/core"
)

// MarkdownRenderer renders the record sequence as a Markdown document.
type MarkdownRenderer struct {
	title string
}

// NewMarkdownRenderer creates a MarkdownRenderer with the given title.
func NewMarkdownRenderer(title string) *MarkdownRenderer {
	return &MarkdownRenderer{title: title}
}

// Render builds the study sheet.
func (r *MarkdownRenderer) Render(_ context.Context, records []core.Record) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.title)

	for i, rec := range records {
		fmt.Fprintf(&b, "## Q%d\n\n%s\n\n", i+1, rec.PromptText)

		writeImageLinks(&b, rec.PromptImages)

		for idx, choice := range rec.Choices {
			fmt.Fprintf(&b, "- %s. %s\n", core.ChoiceLetter(idx), choice)
		}
		if len(rec.Choices) > 0 {
			b.WriteString("\n")
		}

		if rec.CorrectLetter != nil {
			fmt.Fprintf(&b, "**Correct Answer:** %s\n\n", *rec.CorrectLetter)
		}
		if rec.AnswerText != nil {
			fmt.Fprintf(&b, "**Answer(s):** %s\n\n", *rec.AnswerText)
		}
		if rec.ExplanationText != nil {
			fmt.Fprintf(&b, "**Explanation:** %s\n\n", *rec.ExplanationText)
		}

		writeImageLinks(&b, rec.ExplanationImages)
	}

	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func writeImageLinks(b *strings.Builder, refs []string) {
	for _, ref := range refs {
		fmt.Fprintf(b, "![](%s)\n", ref)
	}
	if len(refs) > 0 {
		b.WriteString("\n")
	}
}
