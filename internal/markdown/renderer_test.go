package markdown

import (
	"strings"
	"testing"
)

type fakeResolver struct {
	calls []string
}

func (f *fakeResolver) Resolve(locator string) string {
	f.calls = append(f.calls, locator)
	return "/assets/deadbeef.png"
}

func render(t *testing.T, input string) (string, *fakeResolver) {
	t.Helper()
	resolver := &fakeResolver{}
	out, err := New(resolver).Render(input)
	if err != nil {
		t.Fatalf("Render(%q): %v", input, err)
	}
	return out, resolver
}

func TestRenderEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		out, _ := render(t, input)
		if out != noContent {
			t.Fatalf("Render(%q) = %q, want no-content marker", input, out)
		}
	}
}

func TestRenderUnwrapsSingleParagraph(t *testing.T) {
	out, _ := render(t, "Hello")
	if out != "Hello" {
		t.Fatalf("expected unwrapped paragraph, got %q", out)
	}
}

func TestRenderKeepsMultipleParagraphs(t *testing.T) {
	out, _ := render(t, "Hello\n\nWorld")
	if !strings.Contains(out, "<p>Hello</p>") || !strings.Contains(out, "<p>World</p>") {
		t.Fatalf("expected two paragraphs, got %q", out)
	}
}

func TestRenderEscapesRawHTMLBlock(t *testing.T) {
	out, _ := render(t, "<script>alert(1)</script>")
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw HTML must not pass through, got %q", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("raw HTML should be escaped, got %q", out)
	}
}

func TestRenderEscapesInlineRawHTML(t *testing.T) {
	out, _ := render(t, "a <b>bold</b> word")
	if strings.Contains(out, "<b>") {
		t.Fatalf("inline raw HTML must not pass through, got %q", out)
	}
	if !strings.Contains(out, "&lt;b&gt;bold&lt;/b&gt;") {
		t.Fatalf("inline raw HTML should be escaped in place, got %q", out)
	}
}

func TestRenderRewritesImageSources(t *testing.T) {
	out, resolver := render(t, "![diagram](http://example.com/diagram.png)")
	if strings.Contains(out, "http://example.com/diagram.png") {
		t.Fatalf("original image URL should be replaced, got %q", out)
	}
	if !strings.Contains(out, `src="/assets/deadbeef.png"`) {
		t.Fatalf("expected resolved asset path, got %q", out)
	}
	if len(resolver.calls) != 1 || resolver.calls[0] != "http://example.com/diagram.png" {
		t.Fatalf("unexpected resolver calls: %v", resolver.calls)
	}
}

func TestRenderResolvesDistinctImagesOnce(t *testing.T) {
	input := "![a](http://example.com/a.png) ![a again](http://example.com/a.png)"
	_, resolver := render(t, input)
	if len(resolver.calls) != 1 {
		t.Fatalf("duplicate sources should resolve once, got %v", resolver.calls)
	}
}

func TestRenderRootsPatternLanguageLinks(t *testing.T) {
	out, _ := render(t, "[see also](pattern-languages/cloud/loadbalancer)")
	if !strings.Contains(out, `href="/pattern-languages/cloud/loadbalancer"`) {
		t.Fatalf("expected root-relative cross reference, got %q", out)
	}
}

func TestRenderAnnotatesExternalLinks(t *testing.T) {
	out, _ := render(t, "[site](https://example.com)")
	if !strings.Contains(out, `target="_blank" href="https://example.com"`) {
		t.Fatalf("expected target annotation on external link, got %q", out)
	}
}

func TestRenderAutolinksBareURLs(t *testing.T) {
	out, _ := render(t, "visit https://example.com today")
	if !strings.Contains(out, `target="_blank" href="https://example.com"`) {
		t.Fatalf("expected autolinked external URL, got %q", out)
	}
}

func TestRenderInlineMathEscaped(t *testing.T) {
	out, _ := render(t, "$x < y$")
	want := `<span class="math">\(x &lt; y\)</span>`
	if out != want {
		t.Fatalf("inline math = %q, want %q", out, want)
	}
}

func TestRenderDisplayMath(t *testing.T) {
	out, _ := render(t, "$$a+b$$")
	want := `<div class="math">$$a+b$$</div>`
	if out != want {
		t.Fatalf("display math = %q, want %q", out, want)
	}
}

func TestRenderIndentedCodeIsNotMath(t *testing.T) {
	out, _ := render(t, "intro\n\n    $$x$$\n")
	if strings.Contains(out, `class="math"`) {
		t.Fatalf("indented code must stay code, got %q", out)
	}
	if !strings.Contains(out, "<code>") || !strings.Contains(out, "$$x$$") {
		t.Fatalf("expected literal code block, got %q", out)
	}
}

func TestRenderDollarWithoutCloserStaysLiteral(t *testing.T) {
	out, _ := render(t, "costs $5 at most")
	if strings.Contains(out, `class="math"`) {
		t.Fatalf("unclosed dollar must stay literal, got %q", out)
	}
}

func TestRenderTables(t *testing.T) {
	out, _ := render(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	if !strings.Contains(out, "<table>") {
		t.Fatalf("expected table extension output, got %q", out)
	}
}

func TestRenderTaskLists(t *testing.T) {
	out, _ := render(t, "- [x] done\n- [ ] open")
	if !strings.Contains(out, `type="checkbox"`) {
		t.Fatalf("expected task list checkboxes, got %q", out)
	}
}

func TestRenderFootnotes(t *testing.T) {
	out, _ := render(t, "claim[^1]\n\n[^1]: source")
	if !strings.Contains(out, "fn:1") {
		t.Fatalf("expected footnote markup, got %q", out)
	}
}
