package tui

import (
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"lowercase word":  {input: "description", want: "Description"},
		"multiple words":  {input: "applicable documents", want: "Applicable Documents"},
		"already titled":  {input: "Body", want: "Body"},
		"empty string":    {input: "", want: ""},
		"mixed case word": {input: "applyTo", want: "Applyto"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := titleCase(tt.input)
			if got != tt.want {
				t.Errorf("titleCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tests := map[string]struct {
		input string
		width int
		want  string
	}{
		"shorter than width": {input: "src/**", width: 10, want: "src/**"},
		"exact width":        {input: "abcde", width: 5, want: "abcde"},
		"needs truncation":   {input: "src/components/**/*.tsx", width: 10, want: "src/com..."},
		"tiny width":         {input: "abcdef", width: 1, want: "a"},
		"empty":              {input: "", width: 5, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := truncateText(tt.input, tt.width)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapLines(t *testing.T) {
	t.Run("wraps long text", func(t *testing.T) {
		text := "Apply strict TypeScript compiler settings to every source file in the project"
		lines := wrapLines(text, 30, 3)
		if len(lines) == 0 {
			t.Fatal("expected at least one line")
		}
		if len(lines) > 3 {
			t.Errorf("expected at most 3 lines, got %d", len(lines))
		}
		for _, line := range lines {
			if len(line) > 31 {
				t.Errorf("line exceeds width: %q", line)
			}
		}
	})

	t.Run("short text stays on one line", func(t *testing.T) {
		lines := wrapLines("short", 30, 3)
		if len(lines) != 1 || lines[0] != "short" {
			t.Errorf("expected [short], got %v", lines)
		}
	})

	t.Run("truncates overflow with ellipsis", func(t *testing.T) {
		text := strings.Repeat("word ", 50)
		lines := wrapLines(text, 20, 2)
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasSuffix(lines[1], "...") {
			t.Errorf("expected last line to end with ellipsis, got %q", lines[1])
		}
	})
}

func TestPadLines(t *testing.T) {
	lines := padLines([]string{"one"}, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "one" || lines[1] != "" || lines[2] != "" {
		t.Errorf("unexpected padding result: %v", lines)
	}
}
