// Package author provides author name parsing and matching for the
// inclusion filter applied after reconciliation.
package author

import (
	"strings"
	"unicode"

	"github.com/matsen/bibmerge/internal/reference"
)

// Query represents a parsed author search query.
type Query struct {
	First string // First name (may be empty for last-name-only queries)
	Last  string // Last name (required)
}

// ParseQuery parses an author search string into a structured Query.
//
// Supported formats:
//   - "Pal"          → last="Pal" (single word = last name only)
//   - "Chris Pal"    → first="Chris", last="Pal" (space-separated = First Last)
//   - "Pal, Chris"   → first="Chris", last="Pal" (comma = Last, First)
//
// Names are trimmed but case is preserved (matching is case-insensitive).
func ParseQuery(input string) Query {
	a := ParseName(input)
	return Query{First: a.First, Last: a.Last}
}

// ParseName splits one author token into first and last names using the
// same rules as ParseQuery.
func ParseName(input string) reference.Author {
	input = strings.TrimSpace(input)
	if input == "" {
		return reference.Author{}
	}

	// Check for comma format: "Last, First"
	if idx := strings.Index(input, ","); idx > 0 {
		last := strings.TrimSpace(input[:idx])
		first := strings.TrimSpace(input[idx+1:])
		return reference.Author{First: first, Last: last}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return reference.Author{Last: parts[0]}
	}

	// Multiple words: last word is last name, rest is first name
	// e.g., "Christopher J. Pal" → first="Christopher J.", last="Pal"
	last := parts[len(parts)-1]
	first := strings.Join(parts[:len(parts)-1], " ")
	return reference.Author{First: first, Last: last}
}

// Matches checks if the query matches a given author.
//
// Matching rules:
//   - Last name: case-insensitive exact match, ignoring punctuation and
//     LaTeX braces (required)
//   - First name: case-insensitive prefix match (if query has first name)
//
// This enables "Chris Pal" to match "Pal, Christopher J." while preventing
// "Pal" from matching "Pallas".
func (q Query) Matches(a reference.Author) bool {
	if q.Last == "" {
		return false
	}
	if !strings.EqualFold(lettersOnly(q.Last), lettersOnly(a.Last)) {
		return false
	}

	// If no first name in query, we're done
	if q.First == "" {
		return true
	}

	// First name uses prefix matching (case-insensitive)
	// "Chris" matches "Christopher", "Christopher J.", etc.
	return strings.HasPrefix(
		strings.ToLower(lettersOnly(a.First)),
		strings.ToLower(lettersOnly(q.First)),
	)
}

// MatchesAny checks if the query matches any author in the list.
func (q Query) MatchesAny(authors []reference.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// lettersOnly drops everything except letters and single spaces.
func lettersOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
