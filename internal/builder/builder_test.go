package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verkaro/mdbook/internal/config"
)

func testSite(t *testing.T, files map[string]string) (input, output string) {
	t.Helper()
	input = t.TempDir()
	output = t.TempDir()
	for rel, content := range files {
		writeSource(t, input, rel, content)
	}
	return input, output
}

func TestBuild_CountsAndLayout(t *testing.T) {
	input, output := testSite(t, map[string]string{
		"a.md":     "# A\n\ntext",
		"sub/b.md": "# B\n\ntext",
	})

	b := New(config.Default(), input, output, false)
	count, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.FileExists(t, filepath.Join(output, "a.html"))
	require.FileExists(t, filepath.Join(output, "sub", "b.html"))
	require.FileExists(t, filepath.Join(output, "index.html"))
	require.FileExists(t, filepath.Join(output, "css", "syntax.css"))
	for _, name := range componentFiles {
		require.FileExists(t, filepath.Join(output, "components", name))
	}
}

func TestBuild_NavigationScenario(t *testing.T) {
	input, output := testSite(t, map[string]string{
		"a.md":     "# A\n\ntext",
		"sub/b.md": "# B\n\ntext",
	})

	b := New(config.Default(), input, output, false)
	_, err := b.Build()
	require.NoError(t, err)

	aPage := readOutput(t, output, "a.html")
	require.Contains(t, aPage, "Guide")
	// a.md precedes sub/b.md in sort order, so its next link crosses
	// into the "sub" section.
	require.Contains(t, aPage, `href="/sub/b.html"`)

	bPage := readOutput(t, output, "sub/b.html")
	require.Contains(t, bPage, `href="/a.html"`)
}

func TestBuild_IndexFallbackListing(t *testing.T) {
	input, output := testSite(t, map[string]string{
		"guide/start.md": "# Start\n",
	})

	b := New(config.Default(), input, output, false)
	_, err := b.Build()
	require.NoError(t, err)

	index := readOutput(t, output, "index.html")
	require.Contains(t, index, "Documentation")
	require.Contains(t, index, `href="/guide/start.html"`)
}

func TestBuild_IndexFromIndexMd(t *testing.T) {
	input, output := testSite(t, map[string]string{
		"index.md": "# Home\n\nWelcome to the book.",
		"a.md":     "# A\n",
	})

	b := New(config.Default(), input, output, false)
	_, err := b.Build()
	require.NoError(t, err)

	index := readOutput(t, output, "index.html")
	require.Contains(t, index, "Home")
	require.Contains(t, index, "Welcome to the book.")
}

func TestBuild_Idempotent(t *testing.T) {
	input, output := testSite(t, map[string]string{
		"a.md":     "# A\n\ntext",
		"sub/b.md": "# B\n\n```go\nfmt.Println(1)\n```\n",
	})

	b := New(config.Default(), input, output, false)
	_, err := b.Build()
	require.NoError(t, err)
	first := map[string]string{
		"a.html":     readOutput(t, output, "a.html"),
		"sub/b.html": readOutput(t, output, "sub/b.html"),
		"index.html": readOutput(t, output, "index.html"),
	}

	_, err = b.Build()
	require.NoError(t, err)
	for rel, content := range first {
		require.Equal(t, content, readOutput(t, output, rel), rel)
	}
}

func TestBuild_MissingInputIsFatal(t *testing.T) {
	output := t.TempDir()
	missing := filepath.Join(t.TempDir(), "gone")

	b := New(config.Default(), missing, output, false)
	_, err := b.Build()
	require.Error(t, err)
	require.Contains(t, err.Error(), missing)
}

func TestBuild_WatchModeInjectsLiveReload(t *testing.T) {
	input, output := testSite(t, map[string]string{"a.md": "# A\n"})

	b := New(config.Default(), input, output, true)
	_, err := b.Build()
	require.NoError(t, err)

	require.Contains(t, readOutput(t, output, "a.html"), "live-reload")
}

func TestBuild_NoLiveReloadInOneShotMode(t *testing.T) {
	input, output := testSite(t, map[string]string{"a.md": "# A\n"})

	b := New(config.Default(), input, output, false)
	_, err := b.Build()
	require.NoError(t, err)

	require.NotContains(t, readOutput(t, output, "a.html"), "live-reload")
}

func TestBuild_CopiesTemplateAssets(t *testing.T) {
	input, output := testSite(t, map[string]string{"a.md": "# A\n"})

	cfg := config.Default()
	cfg.Paths.Templates = t.TempDir()
	writeSource(t, cfg.Paths.Templates, "css/style.css", "body{}")
	writeSource(t, cfg.Paths.Templates, "js/app.js", "void 0;")

	b := New(cfg, input, output, false)
	_, err := b.Build()
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(output, "css", "style.css"))
	require.FileExists(t, filepath.Join(output, "js", "app.js"))
}

// A failing indexer subprocess must not fail the build: the HTML output
// is already on disk when indexing runs.
func TestRun_SearchIndexerFailureIsNonFatal(t *testing.T) {
	input, output := testSite(t, map[string]string{"a.md": "# A\n"})
	stubIndexer(t, "echo boom >&2\nexit 1\n")

	b := New(config.Default(), input, output, false)
	require.NoError(t, b.Run(context.Background()))

	require.FileExists(t, filepath.Join(output, "a.html"))
	require.FileExists(t, filepath.Join(output, "index.html"))
}

func TestRun_SearchDisabledSkipsIndexer(t *testing.T) {
	input, output := testSite(t, map[string]string{"a.md": "# A\n"})
	// No stub on PATH: reaching the indexer would only log, but disabling
	// search should not even try.
	cfg := config.Default()
	cfg.Output.HTML.Search.Enable = false

	b := New(cfg, input, output, false)
	require.NoError(t, b.Run(context.Background()))
}

func readOutput(t *testing.T, output, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// stubIndexer puts a fake pagefind binary with the given body first on
// PATH.
func stubIndexer(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagefind"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
