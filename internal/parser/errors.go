package parser

import "fmt"

// MalformedDocumentError reports a document whose metadata header is missing,
// unclosed, undecodable, or lacking the required applyTo key.
type MalformedDocumentError struct {
	// Path is the file the document was read from, empty when parsing raw content.
	Path string
	// Reason describes what is wrong with the header.
	Reason string
	// Err is the underlying decode error, if any.
	Err error
}

func (e *MalformedDocumentError) Error() string {
	where := e.Path
	if where == "" {
		where = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed document %q: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed document %q: %s", where, e.Reason)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// InvalidPatternError reports an applyTo glob that does not compile.
// Patterns are validated once at load time so matching never fails later.
type InvalidPatternError struct {
	Path    string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	where := e.Path
	if where == "" {
		where = "document"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q in %q: %v", e.Pattern, where, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q in %q", e.Pattern, where)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}
