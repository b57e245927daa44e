package builder

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// editableMarker in a rust block requests an editable playground; the
// marker is echoed back as a trailing comment for the browser-side UI.
const editableMarker = "<--editable-->"

// codeRenderer replaces goldmark's default code block output with
// chroma-highlighted HTML. Mermaid blocks bypass highlighting entirely:
// the diagram renderer on the client needs the raw text.
type codeRenderer struct {
	style *chroma.Style
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderIndented)
}

func (r *codeRenderer) renderFenced(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := ""
	if l := n.Language(source); l != nil {
		lang = string(l)
	}
	return r.writeBlock(w, blockText(n, source), lang)
}

func (r *codeRenderer) renderIndented(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	return r.writeBlock(w, blockText(node, source), "")
}

func (r *codeRenderer) writeBlock(w util.BufWriter, code, lang string) (ast.WalkStatus, error) {
	switch lang {
	case "mermaid":
		_, err := w.WriteString(`<pre class="code"><code class="language-mermaid">` +
			html.EscapeString(code) + "</code></pre>\n")
		return ast.WalkContinue, err
	case "rust":
		if strings.Contains(code, editableMarker) {
			code += "\n// " + editableMarker
		}
		highlighted, err := r.highlight(code, lang)
		if err != nil {
			return ast.WalkStop, err
		}
		_, err = w.WriteString(`<pre class="code rust"><code>` + highlighted + "</code></pre>\n")
		return ast.WalkContinue, err
	default:
		highlighted, err := r.highlight(code, lang)
		if err != nil {
			return ast.WalkStop, err
		}
		_, err = w.WriteString(`<pre class="code"><code>` + highlighted + "</code></pre>\n")
		return ast.WalkContinue, err
	}
}

// highlight runs code through the lexer for lang, falling back to the
// plain-text lexer for unknown or absent languages.
func (r *codeRenderer) highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	f := chromahtml.New(chromahtml.WithClasses(true), chromahtml.PreventSurroundingPre(true))
	if err := f.Format(&sb, r.style, it); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func blockText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return sb.String()
}
