// Package search triggers the external pagefind indexer over a generated
// site. Indexing is best-effort from the caller's point of view: errors
// here must never fail an otherwise successful build.
package search

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

const indexerBinary = "pagefind"

// SourceNotFoundError reports that the directory to index does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source path does not exist: %s", e.Path)
}

// IndexingError wraps a failed indexer invocation with its captured
// standard-error output.
type IndexingError struct {
	Stderr string
	Err    error
}

func (e *IndexingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("indexing failed: %s: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("indexing failed: %s", e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// Indexer runs pagefind against one site directory.
type Indexer struct {
	sitePath string
}

// New validates the site directory and returns a ready Indexer.
func New(sitePath string) (*Indexer, error) {
	if _, err := os.Stat(sitePath); err != nil {
		return nil, &SourceNotFoundError{Path: sitePath}
	}
	return &Indexer{sitePath: sitePath}, nil
}

// SitePath returns the directory this indexer was configured with.
func (ix *Indexer) SitePath() string { return ix.sitePath }

// Build invokes `pagefind --site <dir>` and waits for it. A launch
// failure or non-zero exit is returned as an IndexingError.
func (ix *Indexer) Build(ctx context.Context) error {
	start := time.Now()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, indexerBinary, "--site", ix.sitePath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &IndexingError{Stderr: stderr.String(), Err: err}
	}

	slog.Info("pagefind indexing completed", "duration", time.Since(start))
	return nil
}
