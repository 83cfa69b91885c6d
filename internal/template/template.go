// Package template generates new instruction documents from built-in templates.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bpod/frontend-context-guidelines/internal/parser"
)

// Type represents the kind of instruction document to generate.
type Type string

const (
	// General produces a document that applies to every file.
	General Type = "general"
	// Language produces a document scoped to one or more file extensions.
	Language Type = "language"
	// Directory produces a document scoped to a directory subtree.
	Directory Type = "directory"
)

// Data holds the values substituted into a template.
type Data struct {
	// ID is the document file name, e.g. "typescript.md".
	ID string
	// Description is a one-line summary placed in the frontmatter.
	Description string
	// ApplyTo is the raw applyTo value, e.g. "**/*.ts, **/*.tsx".
	ApplyTo string
	// Title is the heading used in the body. Defaults to ID without extension.
	Title string
}

// Generator renders instruction document templates.
type Generator struct {
	templates map[Type]*template.Template
}

// New creates a generator with all built-in templates parsed.
func New() (*Generator, error) {
	g := &Generator{
		templates: make(map[Type]*template.Template),
	}
	if err := g.loadBuiltinTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}
	return g, nil
}

func (g *Generator) loadBuiltinTemplates() error {
	templates := map[Type]string{
		General:   generalTemplate,
		Language:  languageTemplate,
		Directory: directoryTemplate,
	}

	for typ, content := range templates {
		tmpl, err := template.New(string(typ)).Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s template: %w", typ, err)
		}
		g.templates[typ] = tmpl
	}

	return nil
}

// LoadCustomTemplate registers a template read from a file.
func (g *Generator) LoadCustomTemplate(name, path string) error {
	content, err := os.ReadFile(path) // #nosec G304 - path supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	g.templates[Type(name)] = tmpl
	return nil
}

// Generate renders a template with the given data.
func (g *Generator) Generate(typ Type, data Data) (string, error) {
	tmpl, exists := g.templates[typ]
	if !exists {
		return "", fmt.Errorf("template %s not found", typ)
	}

	if data.Title == "" {
		data.Title = strings.TrimSuffix(data.ID, filepath.Ext(data.ID))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ValidateGenerated parses generated content the same way the registry
// loader would, so a broken template never produces an unloadable file.
func (g *Generator) ValidateGenerated(content, id string) error {
	_, err := parser.ParseDocument([]byte(content), id, id)
	if err != nil {
		return fmt.Errorf("generated content does not parse: %w", err)
	}
	return nil
}

// CreateDocumentFile renders a template and writes it under root. It refuses
// to overwrite an existing document.
func (g *Generator) CreateDocumentFile(typ Type, data Data, root string) (string, error) {
	if data.ID == "" {
		return "", errors.New("document id cannot be empty")
	}
	if filepath.Ext(data.ID) != ".md" {
		data.ID += ".md"
	}

	content, err := g.Generate(typ, data)
	if err != nil {
		return "", err
	}

	if err := g.ValidateGenerated(content, data.ID); err != nil {
		return "", err
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return "", fmt.Errorf("failed to create instructions directory: %w", err)
	}

	path := filepath.Join(root, data.ID)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("document already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return path, nil
}

// ListTemplates returns the names of the registered templates.
func (g *Generator) ListTemplates() []string {
	templates := make([]string, 0, len(g.templates))
	for typ := range g.templates {
		templates = append(templates, string(typ))
	}
	return templates
}

// ParseType parses a template type string.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "global":
		return General, nil
	case "language", "lang":
		return Language, nil
	case "directory", "dir":
		return Directory, nil
	default:
		return "", fmt.Errorf("unknown template type %q (expected general, language, or directory)", s)
	}
}
