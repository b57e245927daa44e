package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "en", cfg.Book.Language)
	require.Equal(t, "/img/default_logo.svg", cfg.Book.Logo)
	require.Equal(t, "markdown", cfg.Markdown.Format)
	require.False(t, cfg.Output.HTML.AllowHTML)
	require.True(t, cfg.Output.HTML.Search.Enable)
	require.Equal(t, 20, cfg.Output.HTML.Search.LimitResults)
	require.Equal(t, 2, cfg.Output.HTML.Search.BoostTitle)
	require.Equal(t, "templates", cfg.Paths.Templates)
}

func TestLoad_BookToml(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "book.toml", `
[book]
title = "My Book"
authors = ["Alice", "Bob"]

[markdown]
format = "gfm"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "My Book", cfg.Book.Title)
	require.Equal(t, []string{"Alice", "Bob"}, cfg.Book.Authors)
	require.Equal(t, "gfm", cfg.Markdown.Format)
	// Untouched keys keep their defaults.
	require.Equal(t, "en", cfg.Book.Language)
}

func TestLoad_OverrideFileWins(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "book.toml", "[book]\ntitle = \"Base\"\ndescription = \"kept\"\n")
	writeFile(t, "override.toml", "[book]\ntitle = \"Override\"\n")

	cfg, err := Load("override.toml")
	require.NoError(t, err)
	require.Equal(t, "Override", cfg.Book.Title)
	require.Equal(t, "kept", cfg.Book.Description)
}

func TestLoad_JSONOverride(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "conf.json", `{"book": {"title": "From JSON"}}`)

	cfg, err := Load("conf.json")
	require.NoError(t, err)
	require.Equal(t, "From JSON", cfg.Book.Title)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "conf.yaml", "book:\n  title: nope\n")

	_, err := Load("conf.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported config file type")
}

func TestLoad_EnvTakesPrecedence(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, "book.toml", "[book]\ntitle = \"From File\"\n")
	t.Setenv("MDBOOK_BOOK_TITLE", "From Env")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Book.Title)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "en", cfg.Book.Language)
	require.Equal(t, "2021", cfg.Rust.Edition)
	require.Equal(t, 2, cfg.Output.HTML.Search.HeadingSplitLevel)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}
