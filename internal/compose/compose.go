// Package compose renders matched instruction documents into a single
// context blob for the consuming tool.
package compose

import (
	"strings"

	"github.com/bpod/frontend-context-guidelines/internal/model"
)

// Compose concatenates the bodies of the matched documents in order, each
// introduced by a horizontal rule and its id as a heading. Output is
// deterministic: identical input always produces byte-identical output.
// An empty match result composes to the empty string.
func Compose(matched []model.Document) string {
	if len(matched) == 0 {
		return ""
	}

	var b strings.Builder
	for i, doc := range matched {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("---\n\n# ")
		b.WriteString(doc.ID)
		b.WriteString("\n\n")
		b.WriteString(doc.Body)
		b.WriteString("\n")
	}
	return b.String()
}
