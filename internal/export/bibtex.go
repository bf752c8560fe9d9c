// Package export writes reconciled publications as CSV, YAML, XLSX and
// BibTeX.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
)

// ToBibTeX converts a publication to a BibTeX entry.
func ToBibTeX(pub reference.Publication) string {
	entryType := determineEntryType(pub)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citationKey(pub)))

	// Authors
	if pub.Authors != "" {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", escapeLatex(pub.Authors)))
	}

	// Title
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(pub.Title)))

	// Venue
	if pub.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(pub.Venue)))
	}

	// Year (optional)
	if pub.Year != "" {
		b.WriteString(fmt.Sprintf("  year = {%s},\n", pub.Year))
	}

	// DOI (optional)
	if pub.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", pub.DOI))
	}

	// URL (optional)
	if pub.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", pub.URL))
	}

	// arXiv (optional)
	if id := ident.ExtractArXivID(pub.ArXiv); id != "" {
		b.WriteString(fmt.Sprintf("  eprint = {%s},\n", id))
		b.WriteString("  archiveprefix = {arXiv},\n")
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple publications to BibTeX format.
func ToBibTeXList(pubs []reference.Publication) string {
	var entries []string
	for _, pub := range pubs {
		entries = append(entries, ToBibTeX(pub))
	}
	return strings.Join(entries, "\n")
}

// WriteBibTeX writes the rows' publications as one merged .bib file.
func WriteBibTeX(w io.Writer, rows []Row) error {
	pubs := make([]reference.Publication, 0, len(rows))
	for _, r := range rows {
		pubs = append(pubs, r.Publication)
	}
	if _, err := io.WriteString(w, ToBibTeXList(pubs)); err != nil {
		return fmt.Errorf("writing BibTeX: %w", err)
	}
	return nil
}

// citationKey returns the first source key, or one built from the first
// author's family name and the year.
func citationKey(pub reference.Publication) string {
	if key := pub.FirstKey(); key != "" {
		return key
	}

	base := "anon"
	if authors := reference.SplitAuthors(pub.Authors); len(authors) > 0 {
		if family, _, found := strings.Cut(authors[0], ","); found {
			if joined := strings.Join(strings.Fields(family), ""); joined != "" {
				base = joined
			}
		} else if fields := strings.Fields(authors[0]); len(fields) > 0 {
			base = fields[len(fields)-1]
		}
	}
	if year, ok := pub.YearValue(); ok {
		return fmt.Sprintf("%s%d", base, year)
	}
	return base
}

// determineEntryType returns the BibTeX entry type for a publication.
func determineEntryType(pub reference.Publication) string {
	if kind := pub.FirstKind(); kind != "" {
		return kind
	}

	venue := strings.ToLower(pub.Venue)

	// Preprints
	if strings.Contains(venue, "arxiv") ||
		strings.Contains(venue, "biorxiv") ||
		strings.Contains(venue, "medrxiv") {
		return "article"
	}

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Default to article
	return "article"
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
