// Package match decides which instruction documents apply to a target path.
//
// Matching is a pure function over strings: no file I/O happens here and the
// target path does not need to exist. Glob semantics come from doublestar:
// `*` matches within a path segment, `**` crosses segments, `?` matches one
// non-separator character, and `{a,b}` matches brace alternatives. Matching
// is case-sensitive.
//
// Patterns are validated when documents are loaded, so evaluation here never
// fails; malformed input degrades to an empty result, never a partial one.
package match

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bpod/frontend-context-guidelines/internal/model"
)

// NormalizePath converts a target path to the slash-separated relative form
// patterns are written against: backslashes become slashes and a leading ./
// is stripped.
func NormalizePath(target string) string {
	p := strings.ReplaceAll(target, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// Document reports whether any of the document's patterns match the target
// path. Patterns within one document are OR-ed; a document with no patterns
// matches nothing.
func Document(doc model.Document, targetPath string) bool {
	target := NormalizePath(targetPath)
	for _, pattern := range doc.Patterns {
		// Patterns were validated at load time.
		if doublestar.MatchUnvalidated(pattern, target) {
			return true
		}
	}
	return false
}

// Match returns the documents whose pattern set matches the target path,
// preserving the order of the input set. The matcher applies no specificity
// precedence: every matching document is equally applicable and callers
// compose them in load order.
func Match(docs []model.Document, targetPath string) []model.Document {
	matched := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if Document(doc, targetPath) {
			matched = append(matched, doc)
		}
	}
	return matched
}
