package builder

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

//go:embed templates/*.html templates/components/*.js
var templateFS embed.FS

// templateNames lists the templates every build needs; each may be
// overridden by a same-named file in the configured templates directory,
// otherwise the embedded default is used.
var templateNames = []string{"page", "index", "sidebar", "header", "footer"}

// LoadTemplates parses the page, index and partial templates into a
// single named set.
func LoadTemplates(templatesDir string) (*template.Template, error) {
	root := template.New("mdbook")
	for _, name := range templateNames {
		content, err := templateSource(templatesDir, name)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	return root, nil
}

func templateSource(templatesDir, name string) (string, error) {
	file := name + ".html"
	override := filepath.Join(templatesDir, file)
	if data, err := os.ReadFile(override); err == nil {
		return string(data), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading template %s: %w", override, err)
	}
	data, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return "", fmt.Errorf("loading default template %s: %w", name, err)
	}
	return string(data), nil
}
