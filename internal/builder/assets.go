package builder

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// componentFiles are build-tool-owned browser scripts, rewritten into
// <output>/components on every pass regardless of user content.
var componentFiles = []string{"doc-toc.js", "simple-block.js", "search-modal.js"}

// copyStaticAssets publishes the css, js and img trees from the templates
// directory into the output root, then writes the bundled components.
// Absence of a source directory is a no-op, not an error.
func copyStaticAssets(outputDir, templatesDir string) error {
	for _, sub := range []string{"css", "js", "img"} {
		src := filepath.Join(templatesDir, sub)
		dest := filepath.Join(outputDir, sub)
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return err
		}
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyTree(src, dest); err != nil {
			return fmt.Errorf("copying %s assets: %w", sub, err)
		}
	}
	return writeComponents(outputDir)
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func writeComponents(outputDir string) error {
	dir := filepath.Join(outputDir, "components")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range componentFiles {
		data, err := templateFS.ReadFile("templates/components/" + name)
		if err != nil {
			return fmt.Errorf("loading component %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing component %s: %w", name, err)
		}
	}
	return nil
}
