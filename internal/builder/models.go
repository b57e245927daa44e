package builder

import (
	"html/template"

	"github.com/verkaro/mdbook/internal/config"
)

// PageInfo identifies one rendered page in the navigation tree. Path is
// site-root-relative with the .html extension already applied.
type PageInfo struct {
	Title string
	Path  string
}

// Section is a named group of pages in the sidebar, derived from the
// immediate parent directory of each source file.
type Section struct {
	Title string
	Pages []PageInfo
}

// PageData is the per-page payload handed to the page template.
type PageData struct {
	Title    string
	Content  template.HTML
	Sections []Section
	Previous *PageInfo
	Next     *PageInfo
}

// templateContext is the full context for both the page and index
// templates. Page is set only for regular pages; HasIndex, Title and
// Content only for the landing page.
type templateContext struct {
	Year        int
	Config      *config.Config
	CurrentPath string
	WatchMode   bool
	BaseHref    string
	Sections    []Section

	Page *PageData

	HasIndex bool
	Title    string
	Content  template.HTML
}
