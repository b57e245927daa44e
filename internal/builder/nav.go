package builder

import (
	"path/filepath"
	"sort"
)

// buildSections groups the sorted page sequence into navigation sections.
// Root-level pages form a leading "Guide" section; every other page is
// bucketed under its immediate parent path (so chapter1/sub is a section
// of its own, distinct from chapter1 — the full relative parent is the
// key, not the first segment). Non-root sections come out in key-sorted
// order.
func buildSections(pages []sourcePage) []Section {
	var rootPages []PageInfo
	byParent := make(map[string][]PageInfo)

	for _, p := range pages {
		parent := filepath.ToSlash(filepath.Dir(p.rel))
		if parent == "." {
			rootPages = append(rootPages, p.info)
			continue
		}
		byParent[parent] = append(byParent[parent], p.info)
	}

	var sections []Section
	if len(rootPages) > 0 {
		sections = append(sections, Section{Title: "Guide", Pages: rootPages})
	}

	keys := make([]string, 0, len(byParent))
	for k := range byParent {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sections = append(sections, Section{Title: k, Pages: byParent[k]})
	}
	return sections
}

// neighbors returns the previous and next page for position i in the
// global sorted sequence. Adjacency is deliberately not section-local: a
// next link may cross into another section.
func neighbors(pages []sourcePage, i int) (prev, next *PageInfo) {
	if i > 0 {
		p := pages[i-1].info
		prev = &p
	}
	if i+1 < len(pages) {
		n := pages[i+1].info
		next = &n
	}
	return prev, next
}
