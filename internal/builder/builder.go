// Package builder implements the documentation-tree assembly pipeline:
// collect markdown sources, group them into navigation sections, render
// each page through goldmark and html/template, synthesize the landing
// page and publish static assets.
package builder

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verkaro/mdbook/internal/config"
	"github.com/verkaro/mdbook/internal/search"
	"github.com/verkaro/mdbook/internal/util"
)

// Builder runs full build passes from inputDir to outputDir. Every pass
// re-derives all state from disk, so passes are idempotent and
// independent.
type Builder struct {
	cfg       *config.Config
	inputDir  string
	outputDir string
	watchMode bool
}

func New(cfg *config.Config, inputDir, outputDir string, watchMode bool) *Builder {
	return &Builder{
		cfg:       cfg,
		inputDir:  inputDir,
		outputDir: outputDir,
		watchMode: watchMode,
	}
}

// Run performs one build pass and then triggers search indexing when
// enabled. Indexing is best-effort: its failure is logged, never
// propagated.
func (b *Builder) Run(ctx context.Context) error {
	count, err := b.Build()
	if err != nil {
		return err
	}
	slog.Info("site generated", "pages", count, "output", b.outputDir)

	if b.cfg.Output.HTML.Search.Enable {
		idx, err := search.New(b.outputDir)
		if err != nil {
			slog.Warn("search indexing skipped", "error", err)
			return nil
		}
		if err := idx.Build(ctx); err != nil {
			slog.Warn("search indexing failed", "error", err)
		}
	}
	return nil
}

// Build generates the whole site once and returns the number of pages
// rendered (excluding the synthesized index). Any read, render or write
// error aborts the pass with the offending path attached.
func (b *Builder) Build() (int, error) {
	pages, err := collectPages(b.inputDir)
	if err != nil {
		return 0, err
	}

	tmpl, err := LoadTemplates(b.cfg.Paths.Templates)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory %s: %w", b.outputDir, err)
	}
	if err := copyStaticAssets(b.outputDir, b.cfg.Paths.Templates); err != nil {
		return 0, err
	}

	renderer := NewRenderer(b.cfg)
	if err := b.writeSyntaxCSS(renderer); err != nil {
		return 0, err
	}

	sections := buildSections(pages)
	year := time.Now().Year()

	for i := range pages {
		if err := b.renderPage(tmpl, renderer, pages, sections, i, year); err != nil {
			return 0, err
		}
	}

	if err := b.renderIndex(tmpl, renderer, pages, sections, year); err != nil {
		return 0, err
	}
	return len(pages), nil
}

func (b *Builder) renderPage(tmpl *template.Template, renderer *Renderer, pages []sourcePage, sections []Section, i, year int) error {
	page := pages[i]
	content, err := renderer.Render(page.raw)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", page.src, err)
	}

	prev, next := neighbors(pages, i)
	outRel := outputRel(page.rel)
	ctx := templateContext{
		Year:        year,
		Config:      b.cfg,
		CurrentPath: outRel,
		WatchMode:   b.watchMode,
		BaseHref:    util.ComputeBaseHref(page.rel),
		Sections:    sections,
		Page: &PageData{
			Title:    page.info.Title,
			Content:  template.HTML(content),
			Sections: sections,
			Previous: prev,
			Next:     next,
		},
	}

	outPath := filepath.Join(b.outputDir, filepath.FromSlash(outRel))
	return writeTemplate(tmpl, "page", outPath, ctx)
}

// renderIndex writes exactly one root index.html. When an index.md exists
// at the input root its rendered body becomes the landing content;
// otherwise the template falls back to a directory-card listing of the
// section tree.
func (b *Builder) renderIndex(tmpl *template.Template, renderer *Renderer, pages []sourcePage, sections []Section, year int) error {
	ctx := templateContext{
		Year:        year,
		Config:      b.cfg,
		CurrentPath: "index.html",
		WatchMode:   b.watchMode,
		Sections:    sections,
		Title:       "Documentation",
	}

	for _, page := range pages {
		if page.info.Path != "/index.html" {
			continue
		}
		content, err := renderer.Render(page.raw)
		if err != nil {
			return fmt.Errorf("rendering index %s: %w", page.src, err)
		}
		ctx.HasIndex = true
		ctx.Title = page.info.Title
		ctx.Content = template.HTML(content)
		break
	}

	outPath := filepath.Join(b.outputDir, "index.html")
	return writeTemplate(tmpl, "index", outPath, ctx)
}

func (b *Builder) writeSyntaxCSS(renderer *Renderer) error {
	path := filepath.Join(b.outputDir, "css", "syntax.css")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing syntax css: %w", err)
	}
	defer f.Close()
	return renderer.WriteSyntaxCSS(f)
}

func writeTemplate(tmpl *template.Template, name, outPath string, ctx templateContext) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", outPath, err)
	}
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, ctx); err != nil {
		return fmt.Errorf("rendering template %s for %s: %w", name, outPath, err)
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
