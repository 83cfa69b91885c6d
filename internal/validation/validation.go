// Package validation provides pre-flight checks for instruction roots and documents.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bpod/frontend-context-guidelines/internal/model"
	"github.com/bpod/frontend-context-guidelines/internal/parser"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures
	Errors []error
	// Checked is the number of documents examined
	Checked int
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error message.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return fmt.Sprintf("All %d document(s) passed validation", r.Checked)
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = "Validation failed"
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// ValidateRoot checks that an instruction root is usable. A missing root is
// not an error, since a project without instruction documents is normal.
func ValidateRoot(root string) error {
	if root == "" {
		return &Error{
			Field:   "root",
			Message: "root path cannot be empty",
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{
			Field:   "root",
			Message: fmt.Sprintf("cannot access root: %s", root),
			Err:     err,
		}
	}

	if !info.IsDir() {
		return &Error{
			Field:   "root",
			Message: fmt.Sprintf("root is not a directory: %s", root),
		}
	}

	return nil
}

// ValidateRoots checks every configured instruction root.
func ValidateRoots(roots []string) error {
	var errs Errors
	for _, root := range roots {
		if err := ValidateRoot(root); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateDocuments parses every markdown file under the given roots and
// collects all malformed-document and invalid-pattern issues, rather than
// stopping at the first failure. Parseable documents with zero patterns get
// a warning since they can never apply to any path.
func ValidateDocuments(roots []string, onFile func(path string)) (*Result, error) {
	result := &Result{Valid: true}

	for _, root := range roots {
		if err := ValidateRoot(root); err != nil {
			result.AddError(err)
			continue
		}

		// A missing root is a normal empty registry, same as loading.
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		files, err := markdownFiles(root)
		if err != nil {
			result.AddError(&Error{
				Field:   "root",
				Message: fmt.Sprintf("cannot walk root: %s", root),
				Err:     err,
			})
			continue
		}

		for _, path := range files {
			if onFile != nil {
				onFile(path)
			}
			result.Checked++
			validateDocumentFile(root, path, result)
		}
	}

	return result, nil
}

func validateDocumentFile(root, path string, result *Result) {
	content, err := os.ReadFile(path) // #nosec G304 - path discovered under a configured root
	if err != nil {
		result.AddError(&Error{
			Field:   path,
			Message: "cannot read document",
			Err:     err,
		})
		return
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	id := filepath.ToSlash(rel)

	doc, err := parser.ParseDocument(content, id, path)
	if err != nil {
		result.AddError(err)
		return
	}

	validateDocument(doc, result)
}

// ValidateParsed checks already-loaded documents for issues that parsing
// alone does not surface.
func ValidateParsed(docs []model.Document) *Result {
	result := &Result{Valid: true, Checked: len(docs)}

	ids := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if ids[doc.ID] {
			result.AddError(&Error{
				Field:   doc.ID,
				Message: "duplicate document id",
			})
		}
		ids[doc.ID] = true

		validateDocument(doc, result)
	}

	return result
}

func validateDocument(doc model.Document, result *Result) {
	if !doc.HasPatterns() {
		result.AddWarning(fmt.Sprintf("document %q has no applyTo patterns and will never apply", doc.ID))
	}
	if strings.TrimSpace(doc.Body) == "" {
		result.AddWarning(fmt.Sprintf("document %q has an empty body", doc.ID))
	}
}

func markdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
