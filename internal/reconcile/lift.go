// Package reconcile lifts parsed entries into publications and collapses
// duplicates across sources.
package reconcile

import (
	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
)

// liftedFields collects the recognized fields of one entry.
type liftedFields struct {
	title, author, year   string
	journal, booktitle    string
	doi, url              string
	eprint, archivePrefix string
}

// fieldSetters maps every recognized field name to its setter.
// Fields not listed here are ignored.
var fieldSetters = map[string]func(*liftedFields, string){
	"title":         func(f *liftedFields, v string) { f.title = v },
	"author":        func(f *liftedFields, v string) { f.author = v },
	"year":          func(f *liftedFields, v string) { f.year = v },
	"journal":       func(f *liftedFields, v string) { f.journal = v },
	"booktitle":     func(f *liftedFields, v string) { f.booktitle = v },
	"doi":           func(f *liftedFields, v string) { f.doi = v },
	"url":           func(f *liftedFields, v string) { f.url = v },
	"eprint":        func(f *liftedFields, v string) { f.eprint = v },
	"archiveprefix": func(f *liftedFields, v string) { f.archivePrefix = v },
}

// Lift converts a parsed entry into a singleton publication.
// Returns false if the entry has no title.
func Lift(rec bibtex.FieldRecord) (reference.Publication, bool) {
	var f liftedFields
	for name, value := range rec.Fields {
		if set, ok := fieldSetters[name]; ok {
			set(&f, bibtex.CleanValue(value))
		}
	}

	if f.title == "" {
		return reference.Publication{}, false
	}

	venue := f.journal
	if venue == "" {
		venue = f.booktitle
	}

	pub := reference.Publication{
		Title:       f.title,
		Authors:     reference.NormalizeAuthorList(f.author),
		Year:        f.year,
		DOI:         ident.NormalizeDOI(f.doi),
		ArXiv:       ident.ArXivLink(f.eprint, f.archivePrefix, f.url, venue),
		URL:         f.url,
		SourceFiles: singleton(rec.Source),
		SourceKeys:  singleton(rec.Key),
		EntryKinds:  singleton(rec.Kind),
	}
	if venue != "" {
		pub.Venues = []string{venue}
	}
	pub.Venue = SelectPrimaryVenue(pub.Venues)

	return pub, true
}

func singleton(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
