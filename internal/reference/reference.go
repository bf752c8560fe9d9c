// Package reference defines the core domain types for reconciled publications.
package reference

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Publication is one reconciled publication.
//
// Empty strings mean "absent". Title is always non-empty for publications
// produced by the reconcile package, and Venues contains Venue whenever
// Venue is set.
type Publication struct {
	// Metadata
	Title   string   `json:"title"`
	Authors string   `json:"authors,omitempty"` // Normalized "and"-joined author list
	Year    string   `json:"year,omitempty"`    // As written; may contain noise
	Venue   string   `json:"venue,omitempty"`   // Primary display venue
	Venues  []string `json:"venues,omitempty"`  // All distinct venues, first-seen order

	// Identifiers
	DOI   string `json:"doi,omitempty"`   // Normalized: lowercase, no resolver prefix
	ArXiv string `json:"arxiv,omitempty"` // https://arxiv.org/abs/<id>
	URL   string `json:"url,omitempty"`

	// Provenance
	SourceFiles []string `json:"source_files"`
	SourceKeys  []string `json:"bibtex_keys"`
	EntryKinds  []string `json:"entry_types"`
}

// FirstKey returns the first citation key, or "".
func (p Publication) FirstKey() string {
	if len(p.SourceKeys) == 0 {
		return ""
	}
	return p.SourceKeys[0]
}

// FirstSource returns the first source file, or "".
func (p Publication) FirstSource() string {
	if len(p.SourceFiles) == 0 {
		return ""
	}
	return p.SourceFiles[0]
}

// FirstKind returns the first entry kind, or "".
func (p Publication) FirstKind() string {
	if len(p.EntryKinds) == 0 {
		return ""
	}
	return p.EntryKinds[0]
}

var yearRegex = regexp.MustCompile(`\d{4}`)

// YearValue returns the first four-digit run of Year as an integer.
// The second result is false if Year has no such run.
func (p Publication) YearValue() (int, bool) {
	m := yearRegex.FindString(p.Year)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// foldMarks removes combining marks after canonical decomposition, so that
// "Café" and "Cafe" fold to the same text.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CanonicalTitle lowercases a title, folds accents and collapses every run
// of non-alphanumeric characters to a single space.
func CanonicalTitle(title string) string {
	folded, _, err := transform.String(foldMarks, strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}

	var b strings.Builder
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}
