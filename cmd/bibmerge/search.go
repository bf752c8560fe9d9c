package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/bibmerge/internal/author"
	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
	"github.com/spf13/cobra"
)

var (
	searchLimit   int
	searchAuthors []string
	searchYear    string
	searchTitle   string
	searchVenue   string
	searchDOI     string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringArrayVarP(&searchAuthors, "author", "a", nil, "Filter by author name (can be repeated, uses AND logic)")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Filter by year: exact (2024), range (2020:2024), or open (2020: or :2024)")
	searchCmd.Flags().StringVarP(&searchTitle, "title", "t", "", "Filter by title (partial match)")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Filter by venue (partial match, any recorded venue)")
	searchCmd.Flags().StringVar(&searchDOI, "doi", "", "Lookup by DOI")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed publications",
	Long: `Search publications indexed by build or rebuild.

Query Syntax (positional argument):
  Plain text     - Searches title, authors, and venues
  author:name    - Search author names only
  title:text     - Search title only
  venue:text     - Search venues only

Flags narrow the results further:
  --author, -a   - Author query, "Chris Pal" or "Pal, Chris" (repeatable, AND logic)
  --title, -t    - Title contains text
  --year         - Year filter (exact, range, or open-ended)
  --venue        - Any venue contains text
  --doi          - Lookup by DOI (any spelling, e.g. https://doi.org/...)

Author matching uses the same rules as the build filter: family names
must match exactly and given names match by prefix, so "Chris Pal"
matches "Pal, Christopher J." but not "Pallas, Chris".

Examples:
  bibmerge search "reinforcement learning"
  bibmerge search "author:Bengio" --year 2020:
  bibmerge search -a "Chris Pal" --venue NeurIPS
  bibmerge search --doi "https://doi.org/10.1145/3442188.3445922"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// searchFilters are applied to candidates after the index lookup.
type searchFilters struct {
	Authors  []author.Query
	YearFrom int
	YearTo   int
	Title    string
	Venue    string
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDatabase(cfg)
	defer db.Close()

	var pubs []reference.Publication
	var err error

	filters := searchFilters{
		Title: strings.ToLower(strings.TrimSpace(searchTitle)),
		Venue: strings.ToLower(strings.TrimSpace(searchVenue)),
	}
	for _, a := range searchAuthors {
		if q := author.ParseQuery(a); q.Last != "" {
			filters.Authors = append(filters.Authors, q)
		}
	}
	if searchYear != "" {
		filters.YearFrom, filters.YearTo, err = parseYearRange(searchYear)
		if err != nil {
			exitWithError(ExitError, "invalid year format: %v", err)
		}
	}

	switch {
	case searchDOI != "":
		var pub *reference.Publication
		pub, err = db.GetByDOI(ident.NormalizeDOI(searchDOI))
		if pub != nil {
			pubs = []reference.Publication{*pub}
		}
	case len(args) > 0:
		pubs, err = queryIndex(db, args[0])
	case filters.active():
		// Flags only: filter the whole index
		pubs, err = db.ListAll(0)
	default:
		exitWithError(ExitError, "must specify a query or at least one filter (--author, --title, --year, --venue, --doi)")
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	pubs = filters.apply(pubs)
	if searchLimit > 0 && len(pubs) > searchLimit {
		pubs = pubs[:searchLimit]
	}

	// Empty result is not an error
	if pubs == nil {
		pubs = []reference.Publication{}
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Println("No publications found")
		} else {
			fmt.Printf("Found %d publications:\n\n", len(pubs))
			for i, pub := range pubs {
				printPublicationSummary(i+1, pub)
			}
		}
	} else {
		outputJSON(pubs)
	}

	return nil
}

// indexSearcher is the part of the index the positional query uses.
type indexSearcher interface {
	Search(query string, limit int) ([]reference.Publication, error)
	SearchField(field, value string, limit int) ([]reference.Publication, error)
}

// queryIndex dispatches a positional query, honoring field prefixes.
// The limit is applied after filtering, so the index is queried unbounded.
func queryIndex(db indexSearcher, query string) ([]reference.Publication, error) {
	for _, field := range []string{"author", "title", "venue"} {
		if value, ok := strings.CutPrefix(query, field+":"); ok {
			return db.SearchField(field, value, 0)
		}
	}
	return db.Search(query, 0)
}

func (f searchFilters) active() bool {
	return len(f.Authors) > 0 || f.YearFrom > 0 || f.YearTo > 0 || f.Title != "" || f.Venue != ""
}

// apply keeps publications matching every filter, in order.
func (f searchFilters) apply(pubs []reference.Publication) []reference.Publication {
	if !f.active() {
		return pubs
	}
	var kept []reference.Publication
	for _, p := range pubs {
		if f.match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func (f searchFilters) match(p reference.Publication) bool {
	if f.Title != "" && !strings.Contains(strings.ToLower(p.Title), f.Title) {
		return false
	}
	if f.Venue != "" && !containsFold(p.Venues, f.Venue) {
		return false
	}
	if f.YearFrom > 0 || f.YearTo > 0 {
		year, ok := p.YearValue()
		if !ok || (f.YearFrom > 0 && year < f.YearFrom) || (f.YearTo > 0 && year > f.YearTo) {
			return false
		}
	}
	if len(f.Authors) > 0 {
		parsed := author.ParseAuthors(p.Authors)
		for _, q := range f.Authors {
			if !q.MatchesAny(parsed) {
				return false
			}
		}
	}
	return true
}

// containsFold reports whether any value contains the lowercase needle.
func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// parseYearRange parses a year specification into from/to values.
// Supported formats: "2024", "2020:2024", "2020:", ":2024"
func parseYearRange(spec string) (from, to int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, nil
	}

	// Check for range syntax
	if strings.Contains(spec, ":") {
		parts := strings.SplitN(spec, ":", 2)

		if parts[0] != "" {
			from, err = strconv.Atoi(parts[0])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid start year %q", parts[0])
			}
		}

		if parts[1] != "" {
			to, err = strconv.Atoi(parts[1])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid end year %q", parts[1])
			}
		}

		return from, to, nil
	}

	// Single year - exact match
	year, err := strconv.Atoi(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", spec)
	}

	return year, year, nil
}
