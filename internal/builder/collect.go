package builder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourcePage is one discovered markdown file: its raw bytes plus the
// metadata derived from its path and first heading.
type sourcePage struct {
	src  string // absolute or input-relative source path
	rel  string // path relative to the input root, native separators
	raw  []byte
	info PageInfo
}

// collectPages walks the input tree and returns every markdown file in
// path-sorted order. The sort makes section grouping and previous/next
// links deterministic across filesystems. A missing root or an unreadable
// file fails the whole pass.
func collectPages(inputDir string) ([]sourcePage, error) {
	if _, err := os.Stat(inputDir); err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	var paths []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input directory %s: %w", inputDir, err)
	}
	sort.Strings(paths)

	pages := make([]sourcePage, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading source file %s: %w", path, err)
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, sourcePage{
			src: path,
			rel: rel,
			raw: raw,
			info: PageInfo{
				Title: pageTitle(raw, path),
				Path:  "/" + outputRel(rel),
			},
		})
	}
	return pages, nil
}

// outputRel maps a source-relative path to its output-relative path:
// forward slashes, extension swapped to .html.
func outputRel(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

// pageTitle takes the first level-1 heading, falling back to the file
// stem, falling back to "Untitled".
func pageTitle(raw []byte, path string) string {
	if t := extractTitle(string(raw)); t != "" {
		return t
	}
	base := filepath.Base(path)
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return "Untitled"
}

func extractTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
