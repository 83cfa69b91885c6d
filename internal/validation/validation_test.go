package validation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bpod/frontend-context-guidelines/internal/model"
	"github.com/bpod/frontend-context-guidelines/internal/parser"
	"github.com/bpod/frontend-context-guidelines/internal/util"
)

func TestValidateRoot(t *testing.T) {
	t.Run("missing root is not an error", func(t *testing.T) {
		if err := ValidateRoot(filepath.Join(t.TempDir(), "absent")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty root is an error", func(t *testing.T) {
		err := ValidateRoot("")
		if err == nil {
			t.Fatal("expected error")
		}
		var verr *Error
		if !errors.As(err, &verr) {
			t.Fatalf("expected *Error, got %T", err)
		}
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "notadir")
		util.WriteFile(t, path, "content")
		err := ValidateRoot(path)
		if err == nil {
			t.Fatal("expected error for file root")
		}
		if !strings.Contains(err.Error(), "not a directory") {
			t.Errorf("unexpected message: %v", err)
		}
	})
}

func TestValidateDocuments(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		dir := t.TempDir()
		util.WriteDocument(t, dir, "ts.md", "**/*.ts", "Use strict mode.")
		util.WriteDocument(t, dir, "css.md", "src/styles/**", "Prefer modules.")

		result, err := ValidateDocuments([]string{dir}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid {
			t.Errorf("expected valid result, errors: %v", result.Errors)
		}
		if result.Checked != 2 {
			t.Errorf("Checked = %d, want 2", result.Checked)
		}
		if !strings.Contains(result.Summary(), "2 document(s)") {
			t.Errorf("unexpected summary: %s", result.Summary())
		}
	})

	t.Run("collects all failures", func(t *testing.T) {
		dir := t.TempDir()
		util.WriteFile(t, filepath.Join(dir, "broken.md"), "---\napplyTo: \"**\"\nbody without closing delimiter")
		util.WriteFile(t, filepath.Join(dir, "badpattern.md"), "---\napplyTo: \"src/{a,b\"\n---\nBody.\n")
		util.WriteDocument(t, dir, "good.md", "**/*.ts", "Fine.")

		result, err := ValidateDocuments([]string{dir}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Valid {
			t.Fatal("expected invalid result")
		}
		if len(result.Errors) != 2 {
			t.Fatalf("expected 2 errors, got %d: %v", len(result.Errors), result.Errors)
		}

		combined := result.Error().Error()
		if !strings.Contains(combined, "broken.md") {
			t.Errorf("missing broken.md in %q", combined)
		}
		if !strings.Contains(combined, "badpattern.md") {
			t.Errorf("missing badpattern.md in %q", combined)
		}

		var perr *parser.InvalidPatternError
		found := false
		for _, e := range result.Errors {
			if errors.As(e, &perr) {
				found = true
			}
		}
		if !found {
			t.Error("expected an InvalidPatternError among failures")
		}
	})

	t.Run("zero patterns warns", func(t *testing.T) {
		dir := t.TempDir()
		util.WriteDocument(t, dir, "empty.md", "", "Never applies.")

		result, err := ValidateDocuments([]string{dir}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid {
			t.Fatalf("zero patterns must not be an error: %v", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Fatalf("expected 1 warning, got %v", result.Warnings)
		}
		if !strings.Contains(result.Warnings[0], "never apply") {
			t.Errorf("unexpected warning: %s", result.Warnings[0])
		}
	})

	t.Run("missing root counts nothing", func(t *testing.T) {
		result, err := ValidateDocuments([]string{filepath.Join(t.TempDir(), "absent")}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Valid || result.Checked != 0 {
			t.Errorf("unexpected result: valid=%v checked=%d", result.Valid, result.Checked)
		}
	})

	t.Run("invokes file callback", func(t *testing.T) {
		dir := t.TempDir()
		util.WriteDocument(t, dir, "ts.md", "**/*.ts", "Body.")

		var seen []string
		_, err := ValidateDocuments([]string{dir}, func(path string) {
			seen = append(seen, path)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seen) != 1 {
			t.Errorf("expected 1 callback, got %d", len(seen))
		}
	})
}

func TestValidateParsed(t *testing.T) {
	docs := []model.Document{
		{ID: "a.md", Patterns: []string{"**"}, Body: "Body."},
		{ID: "a.md", Patterns: []string{"**/*.ts"}, Body: "Body."},
		{ID: "b.md", Body: "Body."},
	}

	result := ValidateParsed(docs)
	if result.Valid {
		t.Fatal("expected duplicate id to fail validation")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "duplicate") {
		t.Errorf("unexpected error: %v", result.Errors[0])
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected no-pattern warning for b.md, got %v", result.Warnings)
	}
}

func TestErrorsFormatting(t *testing.T) {
	var errs Errors
	if errs.Error() != "no validation errors" {
		t.Errorf("unexpected empty message: %s", errs.Error())
	}

	errs = append(errs, &Error{Field: "root", Message: "bad"})
	if !strings.Contains(errs.Error(), "root") {
		t.Errorf("single error message: %s", errs.Error())
	}

	errs = append(errs, &Error{Field: "doc", Message: "worse"})
	if !strings.HasPrefix(errs.Error(), "2 validation errors") {
		t.Errorf("multi error message: %s", errs.Error())
	}
}
