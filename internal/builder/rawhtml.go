package builder

import (
	"html"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// rawHTMLRenderer controls raw-HTML passthrough. With allow set, source
// HTML is written verbatim; without it the markup is HTML-escaped so tags
// show up as literal text instead of being silently dropped.
type rawHTMLRenderer struct {
	allow bool
}

func (r *rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

func (r *rawHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			if err := r.write(w, line.Value(source)); err != nil {
				return ast.WalkStop, err
			}
		}
	} else if n.HasClosure() {
		if err := r.write(w, n.ClosureLine.Value(source)); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkContinue, nil
}

func (r *rawHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		if err := r.write(w, seg.Value(source)); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkSkipChildren, nil
}

func (r *rawHTMLRenderer) write(w util.BufWriter, raw []byte) error {
	var err error
	if r.allow {
		_, err = w.Write(raw)
	} else {
		_, err = w.WriteString(html.EscapeString(string(raw)))
	}
	return err
}
