package collection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/git"
)

// Output file names written by Result.WriteTo.
const (
	CustomersFile = "allCustomers.json"
	JobsFile      = "allJobs.json"
	PostsFile     = "allPosts.json"
	ManifestFile  = "manifest.json"
)

// Manifest summarizes one build for downstream consumers.
type Manifest struct {
	BuildID     string                       `json:"buildId"`
	GeneratedAt time.Time                    `json:"generatedAt"`
	Collections map[string]CollectionSummary `json:"collections"`
	Failures    []FailureSummary             `json:"failures"`
	// Revision is the content repository HEAD, when the content lives in git.
	Revision    *git.Revision                `json:"revision,omitempty"`
}

// CollectionSummary counts the admitted records of a collection and maps
// each record path to its fingerprint.
type CollectionSummary struct {
	Count        int               `json:"count"`
	Fingerprints map[string]string `json:"fingerprints"`
}

// FailureSummary is the serializable form of a Failure.
type FailureSummary struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Category   string `json:"category,omitempty"`
	Error      string `json:"error"`
}

type summaryEntry struct {
	path        string
	fingerprint string
}

func summarize[R record](recs []R) []summaryEntry {
	out := make([]summaryEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, summaryEntry{path: r.source().Path, fingerprint: r.hash()})
	}
	return out
}

func newCollectionSummary(entries []summaryEntry) CollectionSummary {
	s := CollectionSummary{Count: len(entries), Fingerprints: make(map[string]string, len(entries))}
	for _, e := range entries {
		s.Fingerprints[e.path] = e.fingerprint
	}
	return s
}

func summarizeFailure(f Failure) FailureSummary {
	return FailureSummary{
		Collection: f.Collection,
		Path:       f.Path,
		Category:   string(f.Category()),
		Error:      f.Err.Error(),
	}
}

// Summary returns a short human readable description of the build.
func (m *Manifest) Summary() string {
	names := make([]string, 0, len(m.Collections))
	for name := range m.Collections {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, m.Collections[name].Count))
	}
	return fmt.Sprintf("build=%s %s failures=%d", m.BuildID, strings.Join(parts, " "), len(m.Failures))
}

// WriteTo writes the collections and manifest as JSON into dir. Each file is
// written to a temporary name first and renamed into place.
func (r *Result) WriteTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", dir).
			Build()
	}
	outputs := []struct {
		name  string
		value any
	}{
		{CustomersFile, nonNilSlice(r.Registry.Customers())},
		{JobsFile, nonNilSlice(r.Registry.Jobs())},
		{PostsFile, nonNilSlice(r.Registry.Posts())},
		{ManifestFile, r.Manifest},
	}
	for _, out := range outputs {
		if err := writeJSONAtomic(filepath.Join(dir, out.name), out.value); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
				WithContext("path", filepath.Join(dir, out.name)).
				Build()
		}
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
