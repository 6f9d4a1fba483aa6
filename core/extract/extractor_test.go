package extract

import (
	"reflect"
	"testing"

	"github.com/gaurav-prasanna/quizbook/core"
)

const quizPanel = `
<div class="panel panel-default">
  <div class="panel-heading"><h4>Question 1</h4></div>
  <div class="panel-body">
    <p class="lead">What is X?</p>
    <img src="/img/q1.png">
    <ol class="rounded-list" type="A">
      <li>alpha</li>
      <li class="correct">beta</li>
    </ol>
    <div id="answerQ1" class="collapse">
      <p><strong>Answer(s):</strong> B <br></p>
      <div class="bg-light-yellow"><strong>Explanation:</strong> Because beta. <img src="/img/e1.png"></div>
    </div>
  </div>
</div>`

const nonQuizPanel = `
<div class="panel panel-default">
  <div class="panel-heading"><h4>Advertisement</h4></div>
  <div class="panel-body"><p>Buy our premium dumps!</p></div>
</div>`

func page(panels ...string) string {
	body := ""
	for _, p := range panels {
		body += p
	}
	return "<html><body>" + body + "</body></html>"
}

func extractOne(t *testing.T, html string) core.Record {
	t.Helper()
	records, err := New().ExtractPage(html, 1)
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	return records[0]
}

func TestExtractQuizPanel(t *testing.T) {
	rec := extractOne(t, page(quizPanel))

	if rec.PageNumber != 1 || rec.OrdinalOnPage != 1 {
		t.Errorf("page/ordinal = %d/%d, want 1/1", rec.PageNumber, rec.OrdinalOnPage)
	}
	if rec.PromptText != "What is X?" {
		t.Errorf("prompt = %q", rec.PromptText)
	}
	if want := []string{"alpha", "beta"}; !reflect.DeepEqual(rec.Choices, want) {
		t.Errorf("choices = %v, want %v", rec.Choices, want)
	}
	if rec.CorrectLetter == nil || *rec.CorrectLetter != "B" {
		t.Errorf("correct letter = %v, want B", rec.CorrectLetter)
	}
	if rec.AnswerText == nil || *rec.AnswerText != "B" {
		t.Errorf("answer text = %v, want B", rec.AnswerText)
	}
	if rec.ExplanationText == nil || *rec.ExplanationText != "Because beta." {
		t.Errorf("explanation = %v, want \"Because beta.\"", rec.ExplanationText)
	}
	if want := []string{"/img/q1.png"}; !reflect.DeepEqual(rec.PromptImages, want) {
		t.Errorf("prompt images = %v, want %v", rec.PromptImages, want)
	}
	if want := []string{"/img/e1.png"}; !reflect.DeepEqual(rec.ExplanationImages, want) {
		t.Errorf("explanation images = %v, want %v", rec.ExplanationImages, want)
	}
}

func TestCorrectLetterVariants(t *testing.T) {
	cases := []struct {
		name string
		list string
		want string // "" means nil
	}{
		{
			name: "class marker",
			list: `<li>a</li><li class="correct">b</li>`,
			want: "B",
		},
		{
			name: "data attribute",
			list: `<li data-correct="true">a</li><li>b</li>`,
			want: "A",
		},
		{
			name: "data attribute case insensitive",
			list: `<li>a</li><li>b</li><li data-correct="TRUE">c</li>`,
			want: "C",
		},
		{
			name: "data attribute false ignored",
			list: `<li data-correct="false">a</li><li>b</li>`,
			want: "",
		},
		{
			name: "no marker",
			list: `<li>a</li><li>b</li>`,
			want: "",
		},
		{
			name: "multiple markers keeps first in document order",
			list: `<li>a</li><li class="correct">b</li><li data-correct="true">c</li>`,
			want: "B",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html := page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Q?</p>
  <ol class="rounded-list">` + tc.list + `</ol>
</div></div>`)
			rec := extractOne(t, html)
			switch {
			case tc.want == "" && rec.CorrectLetter != nil:
				t.Errorf("correct letter = %q, want nil", *rec.CorrectLetter)
			case tc.want != "" && rec.CorrectLetter == nil:
				t.Errorf("correct letter = nil, want %q", tc.want)
			case tc.want != "" && *rec.CorrectLetter != tc.want:
				t.Errorf("correct letter = %q, want %q", *rec.CorrectLetter, tc.want)
			}
		})
	}
}

func TestCorrectLetterMatchesAChoiceIndex(t *testing.T) {
	rec := extractOne(t, page(quizPanel))
	if rec.CorrectLetter == nil {
		t.Fatal("expected a correct letter")
	}
	i := int((*rec.CorrectLetter)[0] - 'A')
	if i < 0 || i >= len(rec.Choices) {
		t.Errorf("letter %q does not index choices of length %d", *rec.CorrectLetter, len(rec.Choices))
	}
}

func TestNonQuizPanelsDoNotConsumeOrdinals(t *testing.T) {
	html := page(nonQuizPanel, quizPanel, nonQuizPanel, quizPanel, nonQuizPanel)
	records, err := New().ExtractPage(html, 7)
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, rec := range records {
		if rec.OrdinalOnPage != i+1 {
			t.Errorf("record %d ordinal = %d, want %d", i, rec.OrdinalOnPage, i+1)
		}
		if rec.PageNumber != 7 {
			t.Errorf("record %d page = %d, want 7", i, rec.PageNumber)
		}
	}
}

func TestPanelWithoutBodySkipped(t *testing.T) {
	html := page(`<div class="panel panel-default"><div class="panel-heading"><h4>H</h4></div></div>`, quizPanel)
	records, err := New().ExtractPage(html, 1)
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].OrdinalOnPage != 1 {
		t.Errorf("ordinal = %d, want 1", records[0].OrdinalOnPage)
	}
}

func TestNoChoiceList(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Open question?</p>
</div></div>`))
	if len(rec.Choices) != 0 {
		t.Errorf("choices = %v, want empty", rec.Choices)
	}
	if rec.Choices == nil {
		t.Error("choices should be an empty slice, not nil")
	}
	if rec.CorrectLetter != nil {
		t.Errorf("correct letter = %q, want nil", *rec.CorrectLetter)
	}
}

func TestAnswerRegionIDPrefixMatch(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Q?</p>
  <div id="answerQ231"><p><strong>Answer(s):</strong> A, C</p></div>
</div></div>`))
	if rec.AnswerText == nil || *rec.AnswerText != "A, C" {
		t.Errorf("answer text = %v, want \"A, C\"", rec.AnswerText)
	}
}

func TestExplanationFallbackOutsideAnswerRegion(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Q?</p>
  <div id="answerQ5"><p><strong>Answer(s):</strong> A</p></div>
  <div class="bg-light-yellow"><strong>Explanation</strong> Found elsewhere.</div>
</div></div>`))
	if rec.ExplanationText == nil || *rec.ExplanationText != "Found elsewhere." {
		t.Errorf("explanation = %v, want \"Found elsewhere.\"", rec.ExplanationText)
	}
}

func TestExplanationPrefersAnswerRegionNesting(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Q?</p>
  <div class="bg-light-yellow">Decoy styled block.</div>
  <div id="answerQ5">
    <p><strong>Answer(s):</strong> A</p>
    <div class="bg-light-yellow"><strong>Explanation:</strong> The nested one.</div>
  </div>
</div></div>`))
	if rec.ExplanationText == nil || *rec.ExplanationText != "The nested one." {
		t.Errorf("explanation = %v, want \"The nested one.\"", rec.ExplanationText)
	}
}

func TestImagePartitionNeverCrosses(t *testing.T) {
	// Images before, between, and after the explanation region; only the
	// nested one may land in ExplanationImages.
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <img src="/one.png">
  <p class="lead">Q?</p>
  <div id="answerQ9">
    <img src="/two.png">
    <div class="bg-light-yellow">Explanation text <span><img src="/nested.png"></span></div>
  </div>
  <img src="/three.png">
</div></div>`))

	wantPrompt := []string{"/one.png", "/two.png", "/three.png"}
	if !reflect.DeepEqual(rec.PromptImages, wantPrompt) {
		t.Errorf("prompt images = %v, want %v", rec.PromptImages, wantPrompt)
	}
	wantExp := []string{"/nested.png"}
	if !reflect.DeepEqual(rec.ExplanationImages, wantExp) {
		t.Errorf("explanation images = %v, want %v", rec.ExplanationImages, wantExp)
	}
}

func TestImagesWithoutSrcIgnored(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">Q?</p>
  <img><img src="/kept.png">
</div></div>`))
	if want := []string{"/kept.png"}; !reflect.DeepEqual(rec.PromptImages, want) {
		t.Errorf("prompt images = %v, want %v", rec.PromptImages, want)
	}
}

func TestExtractionIsIdempotent(t *testing.T) {
	html := page(nonQuizPanel, quizPanel, quizPanel)
	first, err := New().ExtractPage(html, 3)
	if err != nil {
		t.Fatalf("first ExtractPage: %v", err)
	}
	second, err := New().ExtractPage(html, 3)
	if err != nil {
		t.Fatalf("second ExtractPage: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("re-running extraction on identical markup produced a different sequence")
	}
}

func TestWhitespaceCollapsed(t *testing.T) {
	rec := extractOne(t, page(`
<div class="panel panel-default"><div class="panel-body">
  <p class="lead">What
     is
     X?</p>
</div></div>`))
	if rec.PromptText != "What is X?" {
		t.Errorf("prompt = %q, want collapsed whitespace", rec.PromptText)
	}
}

func TestEmptyPage(t *testing.T) {
	records, err := New().ExtractPage("<html><body><p>nothing here</p></body></html>", 1)
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
