// Package markdown converts pattern content into sanitized HTML fragments.
// Literal text is always escaped: markup syntax, not raw HTML, is the only
// way to produce tags. Embedded image references are rewritten through the
// asset store so rendered pages never point at the network.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"

	"github.com/goliatone/go-patternatlas/pkg/interfaces"
)

// noContent is the visible marker emitted for empty input.
const noContent = "–"

// Renderer is a reusable markdown-to-HTML converter. It is stateless apart
// from the resolver it delegates image URLs to, so a single instance serves
// a whole render pass.
type Renderer struct {
	md       goldmark.Markdown
	resolver interfaces.ResourceResolver
}

// New builds a renderer whose image references resolve through the supplied
// resolver. Enabled extensions: tables, footnotes, autolinking, task lists,
// and the owned math notation extension.
func New(resolver interfaces.ResourceResolver) *Renderer {
	r := &Renderer{
		resolver: resolver,
	}

	r.md = goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Footnote,
			extension.Linkify,
			extension.TaskList,
			Math,
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&rawHTMLEscaper{}, 500),
			),
		),
	)
	return r
}

// Render converts markdown to a sanitized HTML fragment. Empty input yields
// the no-content marker. A single top-level paragraph is unwrapped so
// one-line fields embed cleanly. Image sources are substituted with
// store-resolved paths, pattern-language cross references are made
// root-relative, and external links gain a target="_blank" annotation.
//
// A conversion error means malformed input reached a layer that assumes
// valid content; it is returned to the caller and aborts the render pass.
func (r *Renderer) Render(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return noContent, nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(trimmed), &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}

	fragment := unwrapParagraph(strings.TrimSpace(buf.String()))

	for _, src := range imageSources(fragment) {
		fragment = strings.ReplaceAll(fragment, src, r.resolver.Resolve(src))
	}

	fragment = strings.ReplaceAll(fragment, `href="pattern-languages/`, `href="/pattern-languages/`)
	fragment = strings.ReplaceAll(fragment, `href="http`, `target="_blank" href="http`)
	return fragment, nil
}

// unwrapParagraph strips the paragraph wrapper when the fragment is exactly
// one top-level paragraph. Checking the body for further paragraph tags
// guards against multi-block fragments that merely start and end with one.
func unwrapParagraph(fragment string) string {
	if !strings.HasPrefix(fragment, "<p>") || !strings.HasSuffix(fragment, "</p>") {
		return fragment
	}
	body := fragment[len("<p>") : len(fragment)-len("</p>")]
	if strings.Contains(body, "<p>") || strings.Contains(body, "</p>") {
		return fragment
	}
	return body
}

// imageSources collects the distinct src attributes of img tags in document
// order.
func imageSources(fragment string) []string {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(fragment))
	seen := map[string]struct{}{}
	var sources []string

	for {
		switch tokenizer.Next() {
		case xhtml.ErrorToken:
			return sources
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if !bytes.Equal(name, []byte("img")) || !hasAttr {
				continue
			}
			for {
				key, value, more := tokenizer.TagAttr()
				if bytes.Equal(key, []byte("src")) && len(value) > 0 {
					src := string(value)
					if _, ok := seen[src]; !ok {
						seen[src] = struct{}{}
						sources = append(sources, src)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

// rawHTMLEscaper replaces goldmark's default raw-HTML handling (omission)
// with escaping, so literal angle-bracket text survives visibly instead of
// disappearing while still never reaching the page as markup.
type rawHTMLEscaper struct{}

func (r *rawHTMLEscaper) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (r *rawHTMLEscaper) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		_, _ = w.WriteString(stdhtml.EscapeString(string(segment.Value(source))))
	}
	return ast.WalkSkipChildren, nil
}

func (r *rawHTMLEscaper) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		for i := 0; i < n.Lines().Len(); i++ {
			line := n.Lines().At(i)
			_, _ = w.WriteString(stdhtml.EscapeString(string(line.Value(source))))
		}
	} else if n.HasClosure() {
		_, _ = w.WriteString(stdhtml.EscapeString(string(n.ClosureLine.Value(source))))
	}
	return ast.WalkContinue, nil
}
