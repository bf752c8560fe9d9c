package bibtex

import (
	"strings"
	"unicode"
)

// FieldRecord is a parsed entry: cleaned field values keyed by lowercase
// field name, plus the entry's identity within its source.
type FieldRecord struct {
	Kind   string            // Entry kind, lowercased
	Key    string            // Declared citation key
	Source string            // Source label (file base name)
	Fields map[string]string // Lowercase field name -> cleaned value
}

// Get returns the cleaned value of a field, or "" if absent.
func (r FieldRecord) Get(name string) string {
	return r.Fields[name]
}

// ParseEntry splits a raw entry into its key and fields.
// Returns false if the entry has no opening delimiter or no content.
// When a field name repeats, the last occurrence wins.
func ParseEntry(entry RawEntry) (FieldRecord, bool) {
	raw := strings.TrimSpace(entry.Raw)

	open := entry.Open
	if open == 0 {
		open = '{'
	}
	idx := strings.IndexByte(raw, open)
	if idx < 0 {
		return FieldRecord{}, false
	}

	body := raw[idx+1:]
	if entry.Complete {
		body = strings.TrimRightFunc(body, unicode.IsSpace)
		body = strings.TrimSuffix(body, string(closingDelimiter(open)))
	}

	parts := SplitTopLevel(body, DefaultSeparator)
	if len(parts) == 0 {
		return FieldRecord{}, false
	}

	rec := FieldRecord{
		Kind:   entry.Kind,
		Key:    strings.TrimSpace(parts[0]),
		Source: entry.Source,
		Fields: make(map[string]string, len(parts)-1),
	}

	for _, chunk := range parts[1:] {
		name, value, ok := strings.Cut(chunk, "=")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		rec.Fields[name] = CleanValue(value)
	}

	return rec, true
}
