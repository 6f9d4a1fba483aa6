// Package core defines the data model and pipeline interfaces for quizbook.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Record is one extracted question: prompt, choices, answer material, and the
// image references found in its panel. Records are constructed once by the
// extractor and never mutated afterwards.
type Record struct {
	// PageNumber is the listing page the record was extracted from.
	PageNumber int `json:"page_number"`
	// OrdinalOnPage is the 1-based position among qualifying panels on that
	// page. Non-quiz panels do not consume an ordinal.
	OrdinalOnPage int `json:"question_number_on_page"`
	// PromptText is required; a panel without one is not a record.
	PromptText string `json:"question_text"`
	// Choices in document order. Letter identity is positional (index 0 = "A")
	// and never stored.
	Choices []string `json:"options"`
	// CorrectLetter is the letter of the choice flagged correct in the markup,
	// nil when no choice carries a flag.
	CorrectLetter *string `json:"correct_answer_letter"`
	// AnswerText is the free-form answer key string (label already stripped).
	// It may disagree with CorrectLetter; both are kept as extracted.
	AnswerText      *string `json:"answer_text"`
	ExplanationText *string `json:"explanation_text"`
	// Image references partitioned by location: anything inside the
	// explanation region is an explanation image, everything else a prompt
	// image. Document order within each partition.
	PromptImages      []string `json:"question_images"`
	ExplanationImages []string `json:"explanation_images"`
}

// ChoiceLetter maps a choice index to its positional letter ("A" for 0).
func ChoiceLetter(i int) string {
	return string(rune('A' + i))
}

// Fetcher retrieves remote resources, absorbing transient failures internally
// (bounded retries); a returned error means the resource is unavailable.
type Fetcher interface {
	// FetchPage returns the HTML body of a listing page.
	FetchPage(ctx context.Context, url string) (string, error)
	// Download streams a binary resource to dest.
	Download(ctx context.Context, url string, dest string) error
}

// Extractor parses one page's markup into zero or more Records in document
// order. It only errors when the markup cannot be parsed as a document;
// malformed individual panels are skipped.
type Extractor interface {
	ExtractPage(html string, pageNumber int) ([]Record, error)
}

// ImageResolver turns an image reference from a Record into a local file path,
// downloading and caching as needed.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string, prefix string) (string, error)
}

// Serializer persists the full record sequence as an interchange format.
type Serializer interface {
	Serialize(records []Record) ([]byte, error)
}

// Renderer converts the full record sequence into a final output document.
// The context bounds any resource resolution the renderer performs.
type Renderer interface {
	Render(ctx context.Context, records []Record) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".pdf").
	Extension() string
}
