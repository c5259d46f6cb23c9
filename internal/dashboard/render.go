package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

//go:embed templates/dashboard.html templates/styles.css
var templateFS embed.FS

// Renderer writes the render context out as the static page the kiosk
// displays. The template itself is a display concern; the renderer only
// guarantees an atomically replaced index.html.
type Renderer struct {
	outputDir string
	tmpl      *template.Template
}

// NewRenderer parses the embedded template and prepares the output directory.
func NewRenderer(outputDir string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(outputDir, "static"), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Renderer{outputDir: outputDir, tmpl: tmpl}, nil
}

// Render writes index.html (atomically, temp-then-rename) and the stylesheet.
// The kiosk browser auto-refreshes, so it must never observe a half-written
// page.
func (r *Renderer) Render(ctx Context) error {
	tmp, err := os.CreateTemp(r.outputDir, ".index-*.html")
	if err != nil {
		return fmt.Errorf("create temp page: %w", err)
	}
	tmpName := tmp.Name()

	if err := r.tmpl.Execute(tmp, ctx); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("render dashboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp page: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(r.outputDir, "index.html")); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace index.html: %w", err)
	}

	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return fmt.Errorf("read embedded stylesheet: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.outputDir, "static", "styles.css"), css, 0644); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}

	return nil
}
