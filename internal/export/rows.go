package export

import (
	"sort"
	"strings"

	"github.com/matsen/bibmerge/internal/reference"
	"github.com/matsen/bibmerge/internal/tags"
)

// Row is one publication in output order, with its carried-over tags.
type Row struct {
	reference.Publication

	SortYear int  // First four-digit run of Year, 0 if none
	HasYear  bool // Whether Year contains a four-digit run
	Tags     []string
}

// BuildRows attaches tags to publications and orders them by descending
// year, then by case-insensitive title. Publications without a year sort
// last. The order of otherwise equal rows is preserved.
func BuildRows(pubs []reference.Publication, idx *tags.Index) []Row {
	rows := make([]Row, 0, len(pubs))
	for _, p := range pubs {
		year, ok := p.YearValue()
		rows = append(rows, Row{
			Publication: p,
			SortYear:    year,
			HasYear:     ok,
			Tags:        idx.Lookup(p.DOI, p.Title),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SortYear != rows[j].SortYear {
			return rows[i].SortYear > rows[j].SortYear
		}
		return strings.ToLower(rows[i].Title) < strings.ToLower(rows[j].Title)
	})

	return rows
}

// ProjectPage returns the row's URL unless it points at arXiv, whose link
// is already carried separately.
func (r Row) ProjectPage() string {
	if r.URL == "" || strings.Contains(strings.ToLower(r.URL), "arxiv.org") {
		return ""
	}
	return r.URL
}
