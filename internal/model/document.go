// Package model defines the core data types shared across guidectx.
package model

import (
	"strings"
	"time"
)

// Document represents a single instruction document loaded from an
// instruction root. Documents are immutable after load.
type Document struct {
	// ID is the slash-separated path of the document relative to its root.
	ID string `json:"id"`
	// Description is free-text metadata, informational only.
	Description string `json:"description,omitempty"`
	// ApplyTo is the raw applyTo value as written in the frontmatter.
	ApplyTo string `json:"apply_to"`
	// Patterns is ApplyTo split on commas, trimmed, with empty entries dropped.
	// Every pattern is glob-validated at load time.
	Patterns []string `json:"patterns"`
	// Body is the document content after the frontmatter, opaque text.
	Body string `json:"body"`
	// Path is the absolute filesystem path the document was loaded from.
	Path string `json:"path"`
	// Metadata holds frontmatter keys beyond applyTo and description.
	Metadata map[string]string `json:"metadata,omitempty"`
	// ModifiedAt is the source file's modification time.
	ModifiedAt time.Time `json:"modified_at"`
}

// HasPatterns reports whether the document can ever match a path.
// A document whose applyTo reduced to zero patterns matches nothing.
func (d Document) HasPatterns() bool {
	return len(d.Patterns) > 0
}

// DisplayPatterns returns the pattern list as a comma-joined string for
// tables and logs.
func (d Document) DisplayPatterns() string {
	if len(d.Patterns) == 0 {
		return "(none)"
	}
	return strings.Join(d.Patterns, ", ")
}
