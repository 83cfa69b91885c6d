// Package registry loads instruction documents from disk into immutable
// snapshots and answers match and compose queries against them.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bpod/frontend-context-guidelines/internal/cache"
	"github.com/bpod/frontend-context-guidelines/internal/compose"
	"github.com/bpod/frontend-context-guidelines/internal/logging"
	"github.com/bpod/frontend-context-guidelines/internal/match"
	"github.com/bpod/frontend-context-guidelines/internal/model"
	"github.com/bpod/frontend-context-guidelines/internal/parser"
)

// documentExtension selects which files under a root count as instruction
// documents.
const documentExtension = ".md"

// Options configures document loading.
type Options struct {
	// SkipMalformed switches the load policy from fail-fast to warn-and-record.
	// Skipped files are always reported in the snapshot's Report; nothing is
	// dropped silently either way.
	SkipMalformed bool
	// Cache, when set, is consulted before parsing and updated after.
	Cache *cache.Cache
	// OnDocument, when set, is called once per discovered file before it is
	// parsed. Used for progress reporting.
	OnDocument func(path string)
}

// SkippedDocument records a file that failed to parse under SkipMalformed.
type SkippedDocument struct {
	Path   string
	Reason error
}

// Report summarizes a load.
type Report struct {
	Loaded  int
	Skipped []SkippedDocument
}

// Snapshot is an immutable, fully-loaded document set. Queries against a
// snapshot are pure functions and safe for concurrent use.
type Snapshot struct {
	Roots     []string
	Documents []model.Document
	Report    Report
	LoadedAt  time.Time
}

// Load reads every instruction document under root, in lexicographic path
// order. A root that does not exist yields an empty snapshot, not an error:
// an empty registry is a normal state.
//
// With the default policy any malformed document or invalid pattern fails
// the load, and every failing file is reported in one aggregated error.
func Load(root string, opts Options) (*Snapshot, error) {
	return LoadAll([]string{root}, opts)
}

// LoadAll loads several roots in order into one snapshot. Documents keep
// ids relative to their own root; within a root, order is lexicographic.
func LoadAll(roots []string, opts Options) (*Snapshot, error) {
	snap := &Snapshot{
		Roots:    roots,
		LoadedAt: time.Now(),
	}

	var loadErrs []error
	for _, root := range roots {
		docs, skipped, errs := loadRoot(root, opts)
		snap.Documents = append(snap.Documents, docs...)
		snap.Report.Skipped = append(snap.Report.Skipped, skipped...)
		loadErrs = append(loadErrs, errs...)
	}
	snap.Report.Loaded = len(snap.Documents)

	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("loading instruction documents: %w", errors.Join(loadErrs...))
	}

	logging.Debug("registry loaded",
		logging.Count(snap.Report.Loaded),
		logging.Root(strings.Join(roots, ",")),
	)
	return snap, nil
}

func loadRoot(root string, opts Options) (docs []model.Document, skipped []SkippedDocument, errs []error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logging.Debug("instruction root not found", logging.Root(root))
		return nil, nil, nil
	}

	files, err := discoverDocuments(root)
	if err != nil {
		return nil, nil, []error{fmt.Errorf("scanning %q: %w", root, err)}
	}

	for _, path := range files {
		if opts.OnDocument != nil {
			opts.OnDocument(path)
		}

		doc, err := loadDocument(root, path, opts.Cache)
		if err != nil {
			if opts.SkipMalformed {
				logging.Warn("skipping instruction document",
					logging.Path(path),
					logging.Err(err),
				)
				skipped = append(skipped, SkippedDocument{Path: path, Reason: err})
				continue
			}
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped, errs
}

// discoverDocuments walks the root and returns document files in
// lexicographic path order (fs.WalkDir visits entries sorted, which keeps
// load order deterministic across platforms).
func discoverDocuments(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), documentExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadDocument(root, path string, c *cache.Cache) (model.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if c != nil {
		if doc, ok := c.Get(abs); ok {
			return doc, nil
		}
	}

	// #nosec G304 - path comes from walking the configured instruction root
	content, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("reading %q: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	id := filepath.ToSlash(rel)

	doc, err := parser.ParseDocument(content, id, abs)
	if err != nil {
		return model.Document{}, err
	}

	if info, err := os.Stat(path); err == nil {
		doc.ModifiedAt = info.ModTime()
	}

	if c != nil {
		c.Set(doc)
	}
	return doc, nil
}

// Match returns the documents applicable to targetPath, in load order.
func (s *Snapshot) Match(targetPath string) []model.Document {
	return match.Match(s.Documents, targetPath)
}

// Compose matches targetPath and renders the result into one context blob.
// Identical snapshot and target always produce byte-identical output.
func (s *Snapshot) Compose(targetPath string) string {
	return compose.Compose(s.Match(targetPath))
}

// Get returns the document with the given id.
func (s *Snapshot) Get(id string) (model.Document, bool) {
	for _, doc := range s.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return model.Document{}, false
}

// Len returns the number of loaded documents.
func (s *Snapshot) Len() int {
	return len(s.Documents)
}

// CountDocuments returns how many document files exist under the roots,
// without parsing them. Used to size progress reporting.
func CountDocuments(roots []string) (int, error) {
	total := 0
	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		files, err := discoverDocuments(root)
		if err != nil {
			return 0, err
		}
		total += len(files)
	}
	return total, nil
}
