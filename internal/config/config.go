// Package config loads the layered book configuration: built-in defaults,
// an auto-discovered book.toml, an optional explicit override file, and
// MDBOOK_-prefixed environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration passed read-only through the build
// pipeline.
type Config struct {
	Book     Book     `mapstructure:"book"`
	Rust     Rust     `mapstructure:"rust"`
	Markdown Markdown `mapstructure:"markdown"`
	Output   Output   `mapstructure:"output"`
	Paths    Paths    `mapstructure:"paths"`
}

// Book holds the site-wide metadata rendered into every page.
type Book struct {
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Authors     []string `mapstructure:"authors"`
	Language    string   `mapstructure:"language"`
	BaseURL     string   `mapstructure:"base_url"`
	Logo        string   `mapstructure:"logo"`
}

type Rust struct {
	Edition string `mapstructure:"edition"`
}

// Markdown selects the dialect and frontmatter handling for source files.
// Format is one of "markdown", "gfm" or "mdx".
type Markdown struct {
	Format      string `mapstructure:"format"`
	Frontmatter bool   `mapstructure:"frontmatter"`
}

type Output struct {
	HTML HTMLOutput `mapstructure:"html"`
}

type HTMLOutput struct {
	MathjaxSupport bool              `mapstructure:"mathjax_support"`
	AllowHTML      bool              `mapstructure:"allow_html"`
	Sanitize       bool              `mapstructure:"sanitize"`
	Playground     Playground        `mapstructure:"playground"`
	Search         Search            `mapstructure:"search"`
	Redirect       map[string]string `mapstructure:"redirect"`
}

type Playground struct {
	Editable    bool `mapstructure:"editable"`
	LineNumbers bool `mapstructure:"line_numbers"`
}

// Search carries the tuning knobs handed to the external indexer and the
// browser-side search UI.
type Search struct {
	Enable            bool `mapstructure:"enable"`
	LimitResults      int  `mapstructure:"limit_results"`
	UseBooleanAnd     bool `mapstructure:"use_boolean_and"`
	BoostTitle        int  `mapstructure:"boost_title"`
	BoostHierarchy    int  `mapstructure:"boost_hierarchy"`
	BoostParagraph    int  `mapstructure:"boost_paragraph"`
	Expand            bool `mapstructure:"expand"`
	HeadingSplitLevel int  `mapstructure:"heading_split_level"`
}

type Paths struct {
	Templates string `mapstructure:"templates"`
}

const (
	envPrefix   = "MDBOOK"
	defaultFile = "book.toml"
)

// Load builds the configuration from all layers. configPath may be empty;
// when set it must name a TOML or JSON file. A missing book.toml is not an
// error, a named override that cannot be read is.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(defaultFile); err == nil {
		v.SetConfigFile(defaultFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", defaultFile, err)
		}
	}

	if configPath != "" {
		switch filepath.Ext(configPath) {
		case ".toml", ".json":
		default:
			return nil, fmt.Errorf("unsupported config file type: %s", configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("book.title", "")
	v.SetDefault("book.description", "")
	v.SetDefault("book.authors", []string{})
	v.SetDefault("book.language", "en")
	v.SetDefault("book.base_url", "")
	v.SetDefault("book.logo", "/img/default_logo.svg")

	v.SetDefault("rust.edition", "2021")

	v.SetDefault("markdown.format", "markdown")
	v.SetDefault("markdown.frontmatter", false)

	v.SetDefault("output.html.mathjax_support", false)
	v.SetDefault("output.html.allow_html", false)
	v.SetDefault("output.html.sanitize", false)
	v.SetDefault("output.html.playground.editable", false)
	v.SetDefault("output.html.playground.line_numbers", false)
	v.SetDefault("output.html.search.enable", true)
	v.SetDefault("output.html.search.limit_results", 20)
	v.SetDefault("output.html.search.use_boolean_and", false)
	v.SetDefault("output.html.search.boost_title", 2)
	v.SetDefault("output.html.search.boost_hierarchy", 2)
	v.SetDefault("output.html.search.boost_paragraph", 1)
	v.SetDefault("output.html.search.expand", false)
	v.SetDefault("output.html.search.heading_split_level", 2)

	v.SetDefault("paths.templates", "templates")
}

// Default returns the configuration produced by the defaults layer alone.
// Used by tests and one-shot builds that run without any config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Only defaults are registered, so this cannot fail on types.
	_ = v.Unmarshal(cfg)
	return cfg
}
