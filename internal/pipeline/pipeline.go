// Package pipeline runs the scan, parse and reconcile stages over a set of
// BibTeX sources.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/reconcile"
	"github.com/matsen/bibmerge/internal/reference"
)

// SourceExt is the extension of input files.
const SourceExt = ".bib"

// ErrNoInputFiles is returned when an input directory holds no sources.
var ErrNoInputFiles = errors.New("no .bib files found")

// Source is one input file, read fully into memory.
type Source struct {
	Path  string
	Label string // Base name, recorded as the publication's source file
	Text  string
}

// Warning is a non-fatal problem found while processing sources.
type Warning struct {
	Source  string `json:"source"`
	Line    int    `json:"line,omitempty"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}

// Stats counts records at each stage.
type Stats struct {
	Files      int `json:"files"`
	Entries    int `json:"entries"`
	Incomplete int `json:"incomplete"`
	Parsed     int `json:"parsed"`
	Untitled   int `json:"untitled"`
	Primary    int `json:"primary"`
	Final      int `json:"final"`
}

// Result is the outcome of Run.
type Result struct {
	Stats        Stats
	Warnings     []Warning
	Publications []reference.Publication // Survivors of both dedup passes
}

// FindSources returns the .bib files directly inside dir, sorted by path.
func FindSources(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*"+SourceExt))
	if err != nil {
		return nil, fmt.Errorf("listing input directory: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, dir)
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadSources reads each path in order.
func LoadSources(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		sources = append(sources, Source{
			Path:  p,
			Label: filepath.Base(p),
			Text:  string(data),
		})
	}
	return sources, nil
}

// Scan locates the raw entries of every source, in source order.
// One warning is returned per incomplete entry.
func Scan(sources []Source) ([]bibtex.RawEntry, []Warning) {
	var entries []bibtex.RawEntry
	var warnings []Warning

	for _, src := range sources {
		for _, e := range bibtex.Scan(src.Text, src.Label) {
			entries = append(entries, e)
			if !e.Complete {
				warnings = append(warnings, incompleteWarning(e))
			}
		}
	}

	return entries, warnings
}

func incompleteWarning(e bibtex.RawEntry) Warning {
	w := Warning{
		Source:  e.Source,
		Line:    e.Line,
		Message: fmt.Sprintf("Incomplete BibTeX entry detected in %s (entry may be truncated).", e.Source),
	}
	if rec, ok := bibtex.ParseEntry(e); ok {
		w.Key = rec.Key
	}
	return w
}

// Run processes sources in order and reconciles the result.
//
// Incomplete entries never reach reconciliation: their fields cannot be
// trusted because the scanner may have swallowed later entries.
// Entries without a title are dropped and counted.
func Run(sources []Source) *Result {
	entries, warnings := Scan(sources)

	res := &Result{Warnings: warnings}
	res.Stats.Files = len(sources)
	res.Stats.Entries = len(entries)
	res.Stats.Incomplete = len(warnings)

	var pubs []reference.Publication
	for _, e := range entries {
		if !e.Complete {
			continue
		}
		rec, ok := bibtex.ParseEntry(e)
		if !ok {
			res.Stats.Untitled++
			continue
		}
		pub, ok := reconcile.Lift(rec)
		if !ok {
			res.Stats.Untitled++
			continue
		}
		pubs = append(pubs, pub)
	}
	res.Stats.Parsed = len(pubs)

	rec := reconcile.Reconcile(pubs)
	res.Stats.Primary = len(rec.Primary)
	res.Stats.Final = len(rec.Final)
	res.Publications = rec.Final

	return res
}

// RunDir finds, loads and processes the sources in dir.
func RunDir(dir string) (*Result, error) {
	paths, err := FindSources(dir)
	if err != nil {
		return nil, err
	}
	sources, err := LoadSources(paths)
	if err != nil {
		return nil, err
	}
	return Run(sources), nil
}
