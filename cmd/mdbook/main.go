package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/verkaro/mdbook/internal/builder"
	"github.com/verkaro/mdbook/internal/config"
	"github.com/verkaro/mdbook/internal/server"
	"github.com/verkaro/mdbook/internal/watcher"
)

var CLI struct {
	Input   string `short:"i" required:"" help:"Input directory containing markdown files"`
	Output  string `short:"o" required:"" help:"Output directory for HTML files"`
	Config  string `short:"c" help:"Optional path to config file (TOML or JSON)"`
	Watch   bool   `short:"w" help:"Watch for changes and rebuild"`
	Serve   bool   `short:"s" help:"Serve the book at http://localhost:<port>"`
	Port    int    `default:"3000" help:"Port to serve on when using --serve"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("mdbook"),
		kong.Description("Generate an HTML book from a tree of markdown files."))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if err := run(); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	ctx := context.Background()
	b := builder.New(cfg, CLI.Input, CLI.Output, CLI.Watch)

	// Initial full pass: a failure here is fatal.
	if err := b.Run(ctx); err != nil {
		return err
	}

	if !CLI.Watch && !CLI.Serve {
		return nil
	}

	hub := server.NewHub()
	errc := make(chan error, 2)

	if CLI.Serve {
		srv := server.New(CLI.Output, CLI.Port, hub)
		go func() { errc <- srv.Run(ctx) }()
	}

	if CLI.Watch {
		paths := []string{CLI.Input}
		if st, err := os.Stat(cfg.Paths.Templates); err == nil && st.IsDir() {
			paths = append(paths, cfg.Paths.Templates)
		}
		w := watcher.New(paths,
			func() error { return b.Run(ctx) },
			func() { hub.Broadcast("reload") })
		go func() { errc <- w.Run(ctx) }()
	}

	// Watch and serve run for the process lifetime; the first error out
	// of either loop is fatal.
	return <-errc
}
