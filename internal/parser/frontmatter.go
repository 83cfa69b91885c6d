// Package parser turns raw instruction document bytes into model.Document
// values: frontmatter splitting, metadata decoding, and pattern validation.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// MetadataFormat identifies the frontmatter encoding by its delimiter.
type MetadataFormat string

const (
	// FormatYAML is frontmatter delimited by --- lines.
	FormatYAML MetadataFormat = "yaml"
	// FormatTOML is frontmatter delimited by +++ lines.
	FormatTOML MetadataFormat = "toml"
)

// Frontmatter is the raw metadata block split out of a document.
type Frontmatter struct {
	// Raw contains the frontmatter bytes with line endings normalized to \n.
	Raw []byte
	// Format records which delimiter introduced the block.
	Format MetadataFormat
	// Body is the remaining content after the closing delimiter.
	Body string
}

// SplitFrontmatter extracts the metadata header from document content.
// The header is a --- (YAML) or +++ (TOML) delimiter line, metadata, and a
// matching closing delimiter. A missing or unclosed header is a
// MalformedDocumentError: an instruction document without a header cannot
// carry applyTo and must be reported, never silently passed through.
func SplitFrontmatter(content []byte) (Frontmatter, error) {
	var delim []byte
	var format MetadataFormat
	switch {
	case hasDelimiterPrefix(content, []byte("---")):
		delim, format = []byte("---"), FormatYAML
	case hasDelimiterPrefix(content, []byte("+++")):
		delim, format = []byte("+++"), FormatTOML
	default:
		return Frontmatter{}, &MalformedDocumentError{Reason: "missing frontmatter delimiter"}
	}

	remaining := content[len(delim):]
	if bytes.HasPrefix(remaining, []byte("\r\n")) {
		remaining = remaining[2:]
	} else {
		remaining = remaining[1:]
	}

	raw, bodyStart, ok := findClosingDelimiter(remaining, delim)
	if !ok {
		return Frontmatter{}, &MalformedDocumentError{Reason: fmt.Sprintf("unclosed frontmatter delimiter %q", string(delim))}
	}

	// Normalize Windows line endings inside the metadata block.
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	raw = bytes.TrimRight(raw, "\r")

	// Skip the newline directly after the closing delimiter.
	if bytes.HasPrefix(remaining[bodyStart:], []byte("\r\n")) {
		bodyStart += 2
	} else if bytes.HasPrefix(remaining[bodyStart:], []byte("\n")) {
		bodyStart++
	}

	return Frontmatter{
		Raw:    raw,
		Format: format,
		Body:   string(remaining[bodyStart:]),
	}, nil
}

// hasDelimiterPrefix reports whether content starts with the delimiter on a
// line of its own.
func hasDelimiterPrefix(content, delim []byte) bool {
	if !bytes.HasPrefix(content, delim) {
		return false
	}
	rest := content[len(delim):]
	return bytes.HasPrefix(rest, []byte("\n")) || bytes.HasPrefix(rest, []byte("\r\n"))
}

// findClosingDelimiter locates the closing delimiter line within the bytes
// that follow the opening one. Returns the metadata bytes and the offset just
// past the closing delimiter.
func findClosingDelimiter(remaining, delim []byte) (raw []byte, bodyStart int, ok bool) {
	// Empty frontmatter: the closing delimiter is the very next line.
	if bytes.HasPrefix(remaining, delim) {
		return []byte{}, len(delim), true
	}

	for _, nl := range []string{"\n", "\r\n"} {
		closing := append([]byte(nl), delim...)
		if idx := bytes.Index(remaining, closing); idx != -1 {
			return remaining[:idx], idx + len(closing), true
		}
	}
	return nil, 0, false
}

// DecodeMetadata parses the frontmatter block into a key-value map according
// to its format.
func DecodeMetadata(fm Frontmatter) (map[string]any, error) {
	if len(fm.Raw) == 0 {
		return map[string]any{}, nil
	}

	meta := map[string]any{}
	switch fm.Format {
	case FormatTOML:
		if err := toml.Unmarshal(fm.Raw, &meta); err != nil {
			return nil, &MalformedDocumentError{Reason: "invalid TOML metadata", Err: err}
		}
	default:
		if err := yaml.Unmarshal(fm.Raw, &meta); err != nil {
			return nil, &MalformedDocumentError{Reason: "invalid YAML metadata", Err: err}
		}
	}
	return meta, nil
}

// NormalizeBody trims surrounding whitespace and normalizes line endings.
func NormalizeBody(body string) string {
	return strings.ReplaceAll(strings.TrimSpace(body), "\r\n", "\n")
}
