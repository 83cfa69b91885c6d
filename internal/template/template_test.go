package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bpod/frontend-context-guidelines/internal/parser"
)

func TestNew(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	templates := g.ListTemplates()
	if len(templates) != 3 {
		t.Errorf("expected 3 built-in templates, got %d: %v", len(templates), templates)
	}
}

func TestGenerate(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		typ       Type
		data      Data
		wantApply string
		wantBody  string
	}{
		"general default pattern": {
			typ:       General,
			data:      Data{ID: "general.md", Description: "Project basics"},
			wantApply: `applyTo: "**"`,
			wantBody:  "# general",
		},
		"language explicit patterns": {
			typ: Language,
			data: Data{
				ID:          "typescript.md",
				Description: "TypeScript rules",
				ApplyTo:     "**/*.ts, **/*.tsx",
				Title:       "TypeScript",
			},
			wantApply: `applyTo: "**/*.ts, **/*.tsx"`,
			wantBody:  "# TypeScript Guidelines",
		},
		"directory default pattern": {
			typ:       Directory,
			data:      Data{ID: "components.md", Title: "src/components"},
			wantApply: `applyTo: "src/components/**"`,
			wantBody:  "# src/components",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			content, err := g.Generate(tt.typ, tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(content, tt.wantApply) {
				t.Errorf("missing %q in:\n%s", tt.wantApply, content)
			}
			if !strings.Contains(content, tt.wantBody) {
				t.Errorf("missing %q in:\n%s", tt.wantBody, content)
			}
		})
	}
}

func TestGeneratedContentParses(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, typ := range []Type{General, Language, Directory} {
		content, err := g.Generate(typ, Data{
			ID:          "sample.md",
			Description: "Sample document",
			ApplyTo:     "src/**",
		})
		if err != nil {
			t.Fatalf("%s: generate failed: %v", typ, err)
		}

		doc, err := parser.ParseDocument([]byte(content), "sample.md", "sample.md")
		if err != nil {
			t.Fatalf("%s: generated content does not parse: %v", typ, err)
		}
		if len(doc.Patterns) != 1 || doc.Patterns[0] != "src/**" {
			t.Errorf("%s: patterns = %v, want [src/**]", typ, doc.Patterns)
		}
		if doc.Description != "Sample document" {
			t.Errorf("%s: description = %q", typ, doc.Description)
		}
	}
}

func TestCreateDocumentFile(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := filepath.Join(t.TempDir(), ".github", "instructions")
	data := Data{ID: "styles", Description: "CSS rules", ApplyTo: "src/styles/**"}

	path, err := g.CreateDocumentFile(Directory, data, root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "styles.md" {
		t.Errorf("expected .md extension appended, got %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read created file: %v", err)
	}
	if !strings.Contains(string(content), `applyTo: "src/styles/**"`) {
		t.Errorf("unexpected content:\n%s", content)
	}

	// Refuses to overwrite.
	if _, err := g.CreateDocumentFile(Directory, data, root); err == nil {
		t.Fatal("expected error when document already exists")
	}
}

func TestCreateDocumentFileEmptyID(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.CreateDocumentFile(General, Data{}, t.TempDir()); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestLoadCustomTemplate(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.tmpl")
	content := "---\napplyTo: \"{{.ApplyTo}}\"\n---\n# {{.Title}}\n"
	if err := os.WriteFile(custom, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	if err := g.LoadCustomTemplate("custom", custom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := g.Generate(Type("custom"), Data{ID: "x.md", ApplyTo: "**/*.vue", Title: "Vue"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `applyTo: "**/*.vue"`) || !strings.Contains(out, "# Vue") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Type
		wantErr bool
	}{
		"general":        {input: "general", want: General},
		"lang alias":     {input: "lang", want: Language},
		"dir alias":      {input: "dir", want: Directory},
		"case insensive": {input: "  Directory ", want: Directory},
		"unknown":        {input: "bogus", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
