package builder

import (
	"bytes"
	"fmt"
	"io"

	"github.com/adrg/frontmatter"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/verkaro/mdbook/internal/config"
)

const syntaxStyle = "solarized-light"

// Renderer converts markdown source to HTML honoring the configured
// dialect, raw-HTML policy and syntax highlighting. One instance is
// constructed per build pass and threaded explicitly through the
// pipeline.
type Renderer struct {
	md     goldmark.Markdown
	cfg    *config.Config
	policy *bluemonday.Policy
	style  *chroma.Style
}

func NewRenderer(cfg *config.Config) *Renderer {
	style := styles.Get(syntaxStyle)

	var exts []goldmark.Extender
	switch cfg.Markdown.Format {
	case "gfm", "mdx":
		exts = append(exts, extension.GFM)
	}

	rendererOpts := []renderer.Option{
		renderer.WithNodeRenderers(
			util.Prioritized(&codeRenderer{style: style}, 100),
			util.Prioritized(&rawHTMLRenderer{allow: cfg.Output.HTML.AllowHTML}, 100),
		),
	}
	if cfg.Output.HTML.AllowHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(linkRewriter{}, 100),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Renderer{
		md:     md,
		cfg:    cfg,
		policy: bluemonday.UGCPolicy(),
		style:  style,
	}
}

// Render converts one markdown document to an HTML fragment. When
// frontmatter handling is enabled the leading metadata block is stripped
// before conversion.
func (r *Renderer) Render(source []byte) (string, error) {
	if r.cfg.Markdown.Frontmatter {
		var meta map[string]any
		rest, err := frontmatter.Parse(bytes.NewReader(source), &meta)
		if err != nil {
			return "", fmt.Errorf("parsing frontmatter: %w", err)
		}
		source = rest
	}

	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	out := buf.Bytes()
	if r.cfg.Output.HTML.Sanitize {
		out = r.policy.SanitizeBytes(out)
	}
	return string(out), nil
}

// WriteSyntaxCSS emits the stylesheet matching the classed highlight
// output, served as css/syntax.css.
func (r *Renderer) WriteSyntaxCSS(w io.Writer) error {
	f := chromahtml.New(chromahtml.WithClasses(true))
	return f.WriteCSS(w, r.style)
}

// linkRewriter swaps .md link destinations for .html so cross-page links
// written against source files resolve in the generated site.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if bytes.HasSuffix(link.Destination, []byte(".md")) {
			dest := bytes.TrimSuffix(link.Destination, []byte(".md"))
			link.Destination = append(dest, []byte(".html")...)
		}
		return ast.WalkContinue, nil
	})
}
