package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ListSeparator joins list-valued cells.
const ListSeparator = ";"

// Columns is the header shared by the CSV and XLSX tables.
var Columns = []string{
	"title", "authors", "year", "venue", "venues", "type",
	"doi", "arxiv", "url", "bibtex_keys", "source_files",
}

// cells returns a row's table cells in Columns order.
func (r Row) cells() []string {
	return []string{
		r.Title,
		r.Authors,
		r.Year,
		r.Venue,
		strings.Join(r.Venues, ListSeparator),
		strings.Join(r.EntryKinds, ListSeparator),
		r.DOI,
		r.ArXiv,
		r.URL,
		strings.Join(r.SourceKeys, ListSeparator),
		strings.Join(r.SourceFiles, ListSeparator),
	}
}

// WriteCSV writes the publication table with a header row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
