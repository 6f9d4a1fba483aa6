package render

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownRender(t *testing.T) {
	data, err := NewMarkdownRenderer("Practice Questions").Render(context.Background(), sampleRecords())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# Practice Questions",
		"## Q1",
		"What is X?",
		"- A. alpha",
		"- B. beta",
		"**Correct Answer:** B",
		"**Answer(s):** B",
		"**Explanation:** Because beta.",
		"![](/img/q1.png)",
		"## Q2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkdownRenderEmptySequence(t *testing.T) {
	data, err := NewMarkdownRenderer("T").Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "# T") {
		t.Errorf("output = %q", data)
	}
}

func TestMarkdownExtension(t *testing.T) {
	if got := NewMarkdownRenderer("T").Extension(); got != ".md" {
		t.Errorf("Extension() = %q, want .md", got)
	}
}
