// Package bibtex scans and parses BibTeX-like source text.
//
// The scanner is deliberately forgiving: it targets the subset of BibTeX found
// in personal bibliography exports and marks truncated entries instead of
// failing the whole file.
package bibtex

import (
	"regexp"
	"strings"
)

// RawEntry is one record located by Scan, before any field parsing.
type RawEntry struct {
	Kind     string // Entry kind, lowercased (article, inproceedings, ...)
	Raw      string // Header line through the balancing close delimiter
	Complete bool   // False if input ended before the delimiters balanced
	Source   string // Label of the source the entry came from
	Line     int    // 1-based line number of the header
	Open     byte   // Opening delimiter: '{' or '('
}

// headerRegex matches an entry header such as "@article{" or "@Book (".
var headerRegex = regexp.MustCompile(`^\s*@([A-Za-z]+)\s*([{(])`)

// Scan splits text into raw entries. Each header starts an entry that
// accumulates whole lines until the delimiter depth returns to zero.
// Scan never fails; unbalanced entries are returned with Complete == false.
func Scan(text, source string) []RawEntry {
	lines := strings.SplitAfter(text, "\n")
	var entries []RawEntry

	for i := 0; i < len(lines); {
		m := headerRegex.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		open := m[2][0]
		closer := closingDelimiter(open)
		header := i + 1

		var buf strings.Builder
		depth := 0
		for i < len(lines) {
			buf.WriteString(lines[i])
			depth += delimiterDelta(lines[i], open, closer)
			i++
			if depth <= 0 {
				break
			}
		}

		entries = append(entries, RawEntry{
			Kind:     strings.ToLower(m[1]),
			Raw:      buf.String(),
			Complete: depth <= 0,
			Source:   source,
			Line:     header,
			Open:     open,
		})
	}

	return entries
}

// closingDelimiter returns the delimiter that balances open.
func closingDelimiter(open byte) byte {
	if open == '(' {
		return ')'
	}
	return '}'
}

// delimiterDelta returns the net depth change of line for the given
// delimiter pair. Escaped characters and quoted spans are ignored.
func delimiterDelta(line string, open, closer byte) int {
	inQuotes := false
	escaped := false
	delta := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case inQuotes:
			// quoted text never changes depth
		case c == open:
			delta++
		case c == closer:
			delta--
		}
	}

	return delta
}
