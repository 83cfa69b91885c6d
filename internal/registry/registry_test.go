package registry

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bpod/frontend-context-guidelines/internal/cache"
	"github.com/bpod/frontend-context-guidelines/internal/parser"
	"github.com/bpod/frontend-context-guidelines/internal/util"
)

func TestLoadEmptyMissingRoot(t *testing.T) {
	snap, err := Load("/nonexistent/instructions", Options{})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 0)

	// An empty registry is a normal state: queries degrade to empty results.
	if got := snap.Match("any/path.ts"); len(got) != 0 {
		t.Errorf("Match() on empty snapshot returned %d documents", len(got))
	}
	util.AssertEqual(t, snap.Compose("any/path.ts"), "")
}

func TestLoadLexicographicOrder(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "zebra.md", "**", "z")
	util.WriteDocument(t, root, "alpha.md", "**", "a")
	util.WriteDocument(t, root, "nested/beta.md", "**", "b")

	snap, err := Load(root, Options{})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 3)

	got := []string{snap.Documents[0].ID, snap.Documents[1].ID, snap.Documents[2].ID}
	want := []string{"alpha.md", "nested/beta.md", "zebra.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Documents[%d].ID = %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestLoadIDsAreRootRelativeSlashPaths(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "frontend/react.md", "**/*.tsx", "react rules")

	snap, err := Load(root, Options{})
	util.AssertNoError(t, err)

	doc, ok := snap.Get("frontend/react.md")
	if !ok {
		t.Fatal("Get() miss for frontend/react.md")
	}
	if !strings.Contains(doc.Path, filepath.Join("frontend", "react.md")) {
		t.Errorf("Path = %q does not point at the source file", doc.Path)
	}
}

func TestLoadIgnoresNonDocumentFiles(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "real.md", "**", "body")
	util.WriteFile(t, filepath.Join(root, "notes.txt"), "not a document")
	util.WriteFile(t, filepath.Join(root, "script.sh"), "#!/bin/sh")

	snap, err := Load(root, Options{})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 1)
}

func TestLoadMalformedFailsByDefault(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "good.md", "**", "fine")
	util.WriteFile(t, filepath.Join(root, "bad.md"), "no frontmatter here\n")
	util.WriteFile(t, filepath.Join(root, "worse.md"), "---\ndescription: missing applyTo\n---\nbody\n")

	_, err := Load(root, Options{})
	if err == nil {
		t.Fatal("Load() error = nil, want aggregated malformed-document error")
	}

	var merr *parser.MalformedDocumentError
	if !errors.As(err, &merr) {
		t.Errorf("error chain missing *MalformedDocumentError: %v", err)
	}
	// Both failing files are named in the one error.
	if !strings.Contains(err.Error(), "bad.md") || !strings.Contains(err.Error(), "worse.md") {
		t.Errorf("error does not name all failing files: %v", err)
	}
}

func TestLoadSkipMalformedRecordsSkips(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "good.md", "**", "fine")
	util.WriteFile(t, filepath.Join(root, "bad.md"), "no frontmatter here\n")

	snap, err := Load(root, Options{SkipMalformed: true})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 1)

	if len(snap.Report.Skipped) != 1 {
		t.Fatalf("Report.Skipped has %d entries, want 1", len(snap.Report.Skipped))
	}
	skipped := snap.Report.Skipped[0]
	if !strings.HasSuffix(skipped.Path, "bad.md") {
		t.Errorf("Skipped.Path = %q, want bad.md", skipped.Path)
	}
	if skipped.Reason == nil {
		t.Error("Skipped.Reason = nil, want the parse error")
	}
}

func TestLoadInvalidPatternFails(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteFile(t, filepath.Join(root, "bad.md"), "---\napplyTo: \"src/{a,b\"\n---\nbody\n")

	_, err := Load(root, Options{})
	if err == nil {
		t.Fatal("Load() error = nil, want invalid-pattern error")
	}
	var perr *parser.InvalidPatternError
	if !errors.As(err, &perr) {
		t.Errorf("error chain missing *InvalidPatternError: %v", err)
	}
}

func TestSnapshotMatchAndCompose(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "ts.md", "**/*.ts", "TypeScript rules.")
	util.WriteDocument(t, root, "tsx.md", "**/*.tsx", "React rules.")
	util.WriteDocument(t, root, "all.md", "**", "Always applies.")

	snap, err := Load(root, Options{})
	util.AssertNoError(t, err)

	matched := snap.Match("src/app.ts")
	if len(matched) != 2 {
		t.Fatalf("Match() returned %d documents, want 2", len(matched))
	}
	// Load order: all.md before ts.md.
	util.AssertEqual(t, matched[0].ID, "all.md")
	util.AssertEqual(t, matched[1].ID, "ts.md")

	blob := snap.Compose("src/app.ts")
	if !strings.Contains(blob, "# all.md") || !strings.Contains(blob, "# ts.md") {
		t.Errorf("Compose() missing headings: %q", blob)
	}
	if strings.Contains(blob, "React rules.") {
		t.Errorf("Compose() included a non-matching document: %q", blob)
	}

	// Byte-identical output for identical input.
	util.AssertEqual(t, blob, snap.Compose("src/app.ts"))
}

func TestLoadAllMergesRootsInOrder(t *testing.T) {
	first := util.CreateTempDir(t)
	second := util.CreateTempDir(t)
	util.WriteDocument(t, first, "a.md", "**", "from first root")
	util.WriteDocument(t, second, "b.md", "**", "from second root")

	snap, err := LoadAll([]string{first, second}, Options{})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 2)
	util.AssertEqual(t, snap.Documents[0].ID, "a.md")
	util.AssertEqual(t, snap.Documents[1].ID, "b.md")
}

func TestLoadUsesCache(t *testing.T) {
	root := util.CreateTempDir(t)
	cacheDir := util.CreateTempDir(t)
	util.WriteDocument(t, root, "ts.md", "**/*.ts", "body")

	c, err := cache.New("instructions", cacheDir)
	util.AssertNoError(t, err)

	snap, err := Load(root, Options{Cache: c})
	util.AssertNoError(t, err)
	util.AssertEqual(t, snap.Len(), 1)
	util.AssertEqual(t, c.Size(), 1)

	// Second load hits the cache and produces the same documents.
	again, err := Load(root, Options{Cache: c})
	util.AssertNoError(t, err)
	util.AssertEqual(t, again.Len(), 1)
	util.AssertEqual(t, again.Documents[0].ID, "ts.md")
}

func TestCountDocuments(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "a.md", "**", "a")
	util.WriteDocument(t, root, "sub/b.md", "**", "b")
	util.WriteFile(t, filepath.Join(root, "ignored.txt"), "x")

	n, err := CountDocuments([]string{root, "/nonexistent"})
	util.AssertNoError(t, err)
	util.AssertEqual(t, n, 2)
}

func TestLoadOnDocumentCallback(t *testing.T) {
	root := util.CreateTempDir(t)
	util.WriteDocument(t, root, "a.md", "**", "a")
	util.WriteDocument(t, root, "b.md", "**", "b")

	var seen []string
	_, err := Load(root, Options{OnDocument: func(path string) {
		seen = append(seen, path)
	}})
	util.AssertNoError(t, err)
	util.AssertEqual(t, len(seen), 2)
}
