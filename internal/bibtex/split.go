package bibtex

import "strings"

// DefaultSeparator separates the fields of an entry body.
const DefaultSeparator = ','

// SplitTopLevel splits input on sep, ignoring separators nested inside braces
// or double-quoted spans. Backslash escapes are honored the same way as in
// Scan. Chunks are trimmed; an empty trailing chunk is dropped.
func SplitTopLevel(input string, sep byte) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	inQuotes := false
	escaped := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			current.WriteByte(c)
			escaped = false
			continue
		}

		switch c {
		case '\\':
			current.WriteByte(c)
			escaped = true
			continue
		case '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
			continue
		}

		if !inQuotes {
			if c == '{' {
				depth++
			} else if c == '}' && depth > 0 {
				depth--
			}
		}

		if c == sep && depth == 0 && !inQuotes {
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}

	if last := strings.TrimSpace(current.String()); last != "" {
		parts = append(parts, last)
	}

	return parts
}
