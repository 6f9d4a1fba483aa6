// Package extract implements the Extractor interface.
// It turns one listing page's markup into typed Records by:
//  1. Finding candidate panels (heading + body blocks)
//  2. Qualifying each panel by the presence of a prompt paragraph
//  3. Pulling choices, the correctness flag, answer and explanation regions
//  4. Partitioning embedded images by explanation-region ancestry
//
// Panels that don't look like quiz content are skipped silently; a listing
// page carries plenty of non-quiz panels and that is not an error.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/quizbook/core"
)

// Selectors for the site's fixed markup shape.
const (
	panelSelector       = "div.panel.panel-default"
	bodySelector        = ".panel-body"
	promptSelector      = "p.lead"
	choiceListSelector  = "ol.rounded-list"
	answerSelector      = `div[id^="answerQ"]`
	explanationSelector = ".bg-light-yellow"
)

// answerLabelRe strips the "Answer(s):" label, keeping only the remainder.
var answerLabelRe = regexp.MustCompile(`Answer\(s\):\s*(.+)$`)

// maxChoices caps the choice list at one entry per letter.
const maxChoices = 26

// PanelExtractor extracts question Records from panel-structured listing pages.
type PanelExtractor struct{}

// New creates a PanelExtractor.
func New() *PanelExtractor {
	return &PanelExtractor{}
}

// ExtractPage parses one page's HTML and returns its Records in document
// order. Only an unparseable document is an error; panels missing a body or a
// prompt are skipped without consuming an ordinal.
func (e *PanelExtractor) ExtractPage(pageHTML string, pageNumber int) ([]core.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing page %d: %w", pageNumber, err)
	}

	var records []core.Record
	ordinal := 0

	doc.Find(panelSelector).Each(func(_ int, panel *goquery.Selection) {
		body := panel.Find(bodySelector).First()
		if body.Length() == 0 {
			return
		}
		prompt := body.Find(promptSelector).First()
		if prompt.Length() == 0 {
			// Not a quiz panel.
			return
		}
		ordinal++

		rec := core.Record{
			PageNumber:    pageNumber,
			OrdinalOnPage: ordinal,
			PromptText:    flatText(prompt),
		}
		rec.Choices, rec.CorrectLetter = extractChoices(body, pageNumber, ordinal)

		answerRegion := body.Find(answerSelector).First()
		rec.AnswerText = extractAnswer(answerRegion)

		explanation := findExplanation(body, answerRegion)
		rec.ExplanationText = extractExplanation(explanation)

		rec.PromptImages, rec.ExplanationImages = partitionImages(body, explanation)

		records = append(records, rec)
	})

	return records, nil
}

// extractChoices reads the ordered choice list. Letters are positional; the
// first item carrying a correctness marker wins when more than one is flagged.
func extractChoices(body *goquery.Selection, pageNumber, ordinal int) ([]string, *string) {
	choices := []string{}
	var correct *string

	list := body.Find(choiceListSelector).First()
	if list.Length() == 0 {
		return choices, nil
	}

	list.Find("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		if i >= maxChoices {
			return false
		}
		choices = append(choices, flatText(li))
		if !flaggedCorrect(li) {
			return true
		}
		if correct != nil {
			log.Warn().
				Int("page", pageNumber).
				Int("ordinal", ordinal).
				Str("kept", *correct).
				Str("ignored", core.ChoiceLetter(i)).
				Msg("multiple choices flagged correct; keeping first in document order")
			return true
		}
		letter := core.ChoiceLetter(i)
		correct = &letter
		return true
	})

	return choices, correct
}

// flaggedCorrect reports whether a choice item carries the correctness marker,
// either data-correct="true" or a "correct" class.
func flaggedCorrect(li *goquery.Selection) bool {
	if v, ok := li.Attr("data-correct"); ok && strings.EqualFold(v, "true") {
		return true
	}
	return li.HasClass("correct")
}

// extractAnswer pulls the free-form answer key from the answer region's first
// paragraph, stripping the "Answer(s):" label.
func extractAnswer(answerRegion *goquery.Selection) *string {
	if answerRegion.Length() == 0 {
		return nil
	}
	p := answerRegion.Find("p").First()
	if p.Length() == 0 {
		return nil
	}
	text := flatText(p)
	if m := answerLabelRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if text == "" {
		return nil
	}
	return &text
}

// findExplanation prefers an explanation region nested inside the answer
// region, falling back to the first styled explanation region in the body.
func findExplanation(body, answerRegion *goquery.Selection) *goquery.Selection {
	if answerRegion.Length() > 0 {
		if exp := answerRegion.Find(explanationSelector).First(); exp.Length() > 0 {
			return exp
		}
	}
	return body.Find(explanationSelector).First()
}

// extractExplanation returns the explanation text with the leading bold
// "Explanation" label removed.
func extractExplanation(explanation *goquery.Selection) *string {
	if explanation.Length() == 0 {
		return nil
	}
	label := explanation.Find("strong").First()
	if label.Length() > 0 && strings.Contains(label.Text(), "Explanation") {
		label.Remove()
	}
	text := flatText(explanation)
	if text == "" {
		return nil
	}
	return &text
}

// partitionImages splits the panel's image references: images whose ancestor
// chain passes through the explanation region belong to the explanation, all
// others to the prompt. Document order is preserved within each partition.
func partitionImages(body, explanation *goquery.Selection) (promptImgs, explanationImgs []string) {
	promptImgs = []string{}
	explanationImgs = []string{}

	var expNode *html.Node
	if explanation.Length() > 0 {
		expNode = explanation.Get(0)
	}

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		node := img.Get(0)
		src := dom.GetAttributeOr(node, "src", "")
		if src == "" {
			return
		}
		if expNode != nil && hasAncestor(node, expNode) {
			explanationImgs = append(explanationImgs, src)
		} else {
			promptImgs = append(promptImgs, src)
		}
	})
	return promptImgs, explanationImgs
}

// hasAncestor reports whether ancestor appears on n's parent chain.
func hasAncestor(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// flatText returns the selection's text with whitespace collapsed to single
// spaces, the shape the rest of the pipeline expects.
func flatText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
