package markdown

import (
	"bytes"
	stdhtml "html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath identifies math nodes in the goldmark AST.
var KindMath = ast.NewNodeKind("Math")

// MathNode holds the raw notation between $ or $$ delimiters. The value is
// HTML-escaped at render time, never passed through verbatim.
type MathNode struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *MathNode) Kind() ast.NodeKind { return KindMath }

// Dump implements ast.Node.
func (n *MathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Value": string(n.Value),
	}, nil)
}

// Math enables $...$ inline and $$...$$ display notation. Delimiters are
// recognised during inline parsing only, so lines goldmark has already
// classified as indented code keep their dollar signs literal.
var Math goldmark.Extender = mathExtension{}

type mathExtension struct{}

func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 500),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathHTMLRenderer{}, 500),
	))
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse matches a $...$ or $$...$$ span on a single line. The enclosed text
// must be non-empty after trimming and the closing delimiter must not be
// escaped with a backslash; otherwise the dollar sign stays literal text.
func (p *mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) == 0 || line[0] != '$' {
		return nil
	}

	opener := 1
	display := false
	if len(line) > 1 && line[1] == '$' {
		opener = 2
		display = true
	}

	closer := findCloser(line, opener)
	if closer < 0 {
		return nil
	}

	value := bytes.TrimSpace(line[opener:closer])
	if len(value) == 0 {
		return nil
	}

	block.Advance(closer + opener)
	node := &MathNode{
		Display: display,
		Value:   append([]byte(nil), value...),
	}
	return node
}

// findCloser returns the index of the first unescaped closing delimiter of
// the given width after the opener, or -1.
func findCloser(line []byte, width int) int {
	for i := width; i+width <= len(line); i++ {
		if line[i] != '$' || line[i-1] == '\\' {
			continue
		}
		if width == 2 && line[i+1] != '$' {
			continue
		}
		return i
	}
	return -1
}

type mathHTMLRenderer struct{}

func (r *mathHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
}

func (r *mathHTMLRenderer) renderMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*MathNode)
	escaped := stdhtml.EscapeString(string(n.Value))
	if n.Display {
		_, _ = w.WriteString(`<div class="math">$$` + escaped + `$$</div>`)
	} else {
		_, _ = w.WriteString(`<span class="math">\(` + escaped + `\)</span>`)
	}
	return ast.WalkContinue, nil
}
