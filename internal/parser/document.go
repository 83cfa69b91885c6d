package parser

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bpod/frontend-context-guidelines/internal/model"
)

// Frontmatter keys the parser handles itself; everything else lands in the
// document's open metadata bag.
const (
	keyApplyTo     = "applyTo"
	keyDescription = "description"
)

// ParseDocument parses raw document content into a model.Document.
// id is the document's root-relative slash path; path is the source file
// (used in error messages, may be empty for in-memory content).
//
// Errors are *MalformedDocumentError (header problems, missing applyTo) or
// *InvalidPatternError (a glob that does not compile).
func ParseDocument(content []byte, id, path string) (model.Document, error) {
	fm, err := SplitFrontmatter(content)
	if err != nil {
		return model.Document{}, withPath(err, path)
	}

	meta, err := DecodeMetadata(fm)
	if err != nil {
		return model.Document{}, withPath(err, path)
	}

	rawApply, ok := applyToValue(meta)
	if !ok {
		return model.Document{}, &MalformedDocumentError{Path: path, Reason: `missing required "applyTo" key`}
	}

	patterns := SplitPatterns(rawApply)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return model.Document{}, &InvalidPatternError{Path: path, Pattern: p, Err: doublestar.ErrBadPattern}
		}
	}

	doc := model.Document{
		ID:          id,
		Description: stringValue(meta, keyDescription),
		ApplyTo:     rawApply,
		Patterns:    patterns,
		Body:        NormalizeBody(fm.Body),
		Path:        path,
	}

	// Retain unrecognized keys so future metadata survives a round trip.
	for key, val := range meta {
		if key == keyApplyTo || key == keyDescription {
			continue
		}
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]string)
		}
		if s, ok := val.(string); ok {
			doc.Metadata[key] = s
		} else {
			doc.Metadata[key] = fmt.Sprintf("%v", val)
		}
	}

	return doc, nil
}

// SplitPatterns splits a raw applyTo value on commas and trims whitespace.
// Commas inside brace alternatives stay part of their pattern, so
// "**/*.{ts,tsx}" is one pattern, not two broken halves. Entries that are
// empty after trimming are dropped: a trailing comma must never turn into a
// match-all pattern.
func SplitPatterns(raw string) []string {
	patterns := make([]string, 0, 4)
	var part strings.Builder

	flush := func() {
		if p := strings.TrimSpace(part.String()); p != "" {
			patterns = append(patterns, p)
		}
		part.Reset()
	}

	depth := 0
	for _, r := range raw {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush()
				continue
			}
		}
		part.WriteRune(r)
	}
	flush()

	return patterns
}

// applyToValue extracts applyTo from decoded metadata. The value may be a
// single comma-separated string or a list of strings; a list is joined so
// both spellings produce the same pattern set.
func applyToValue(meta map[string]any) (string, bool) {
	val, ok := meta[keyApplyTo]
	if !ok {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
		}
		return strings.Join(parts, ", "), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// stringValue extracts a string-typed metadata value, or "".
func stringValue(meta map[string]any, key string) string {
	if val, ok := meta[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// withPath stamps the source path onto a parse error that was produced
// before the caller's path was known.
func withPath(err error, path string) error {
	if e, ok := err.(*MalformedDocumentError); ok && e.Path == "" {
		e.Path = path
	}
	return err
}
