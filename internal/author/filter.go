package author

import (
	"strings"

	"github.com/matsen/bibmerge/internal/reference"
)

// Filter decides which reconciled publications are kept, by author.
// A publication is kept when any query matches any of its authors.
// An empty filter keeps everything.
type Filter struct {
	queries []Query
}

// NewFilter parses each non-blank input as a Query.
func NewFilter(inputs []string) *Filter {
	f := &Filter{}
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		f.queries = append(f.queries, ParseQuery(in))
	}
	return f
}

// Queries returns the parsed queries.
func (f *Filter) Queries() []Query {
	return f.queries
}

// Empty reports whether the filter keeps every publication.
func (f *Filter) Empty() bool {
	return len(f.queries) == 0
}

// Include reports whether an "and"-joined author list passes the filter.
func (f *Filter) Include(authors string) bool {
	if f.Empty() {
		return true
	}

	parsed := ParseAuthors(authors)
	for _, q := range f.queries {
		if q.MatchesAny(parsed) {
			return true
		}
	}
	return false
}

// Apply returns the publications that pass the filter, in order.
func (f *Filter) Apply(pubs []reference.Publication) []reference.Publication {
	if f.Empty() {
		return pubs
	}
	var kept []reference.Publication
	for _, p := range pubs {
		if f.Include(p.Authors) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ParseAuthors parses every author of an "and"-joined list.
func ParseAuthors(authors string) []reference.Author {
	tokens := reference.SplitAuthors(authors)
	parsed := make([]reference.Author, 0, len(tokens))
	for _, tok := range tokens {
		parsed = append(parsed, ParseName(tok))
	}
	return parsed
}
