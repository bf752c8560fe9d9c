package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bibmerge/internal/author"
	"github.com/matsen/bibmerge/internal/pipeline"
	"github.com/matsen/bibmerge/internal/reference"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search command

	SearchTitleMaxLen = 70 // Used in search result summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// printWarnings reports non-fatal problems on stderr.
func printWarnings(warnings []pipeline.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatAuthorsShort lists family names with "et al." after maxCount authors.
func formatAuthorsShort(authors string, maxCount int) string {
	tokens := reference.SplitAuthors(authors)
	if len(tokens) == 0 {
		return ""
	}

	var names []string
	for i, tok := range tokens {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, author.ParseName(tok).Last)
	}
	return strings.Join(names, ", ")
}

func printPublicationSummary(num int, pub reference.Publication) {
	fmt.Printf("[%d] %s\n", num, pub.FirstKey())
	fmt.Printf("    %s\n", truncateString(pub.Title, SearchTitleMaxLen))

	// Format authors (max 3, then "et al.")
	if pub.Authors != "" {
		fmt.Printf("    %s\n", formatAuthorsShort(pub.Authors, 3))
	}

	// Format venue and year
	switch {
	case pub.Venue != "" && pub.Year != "":
		fmt.Printf("    %s (%s)\n", pub.Venue, pub.Year)
	case pub.Venue != "":
		fmt.Printf("    %s\n", pub.Venue)
	case pub.Year != "":
		fmt.Printf("    (%s)\n", pub.Year)
	}
	if pub.DOI != "" {
		fmt.Printf("    doi:%s\n", pub.DOI)
	}
	fmt.Println()
}
