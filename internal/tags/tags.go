// Package tags carries hand-curated tags over from a previously generated
// publications file.
package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
	"gopkg.in/yaml.v3"
)

// Index maps publication identity to tags.
type Index struct {
	ByDOI   map[string][]string
	ByTitle map[string][]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		ByDOI:   make(map[string][]string),
		ByTitle: make(map[string][]string),
	}
}

// row is the subset of a publications row the index needs. Tags are
// decoded loosely because hand edits may use any scalar.
type row struct {
	Title string      `yaml:"title"`
	DOI   string      `yaml:"doi"`
	Tags  []yaml.Node `yaml:"tags"`
}

// Load reads the tag index from a publications YAML file.
//
// A missing file yields an empty index and no error. A malformed file
// yields an empty index and an error the caller should report as a warning.
func Load(path string) (*Index, error) {
	idx := NewIndex()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return idx, fmt.Errorf("reading tags: %w", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return idx, fmt.Errorf("parsing tags from %s: %w", path, err)
	}
	return parsed, nil
}

// Parse builds an index from YAML content. Documents that are not a list
// of mappings produce an empty index.
func Parse(data []byte) (*Index, error) {
	idx := NewIndex()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return idx, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
		return idx, nil
	}

	for _, item := range doc.Content[0].Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		var r row
		if err := item.Decode(&r); err != nil {
			continue
		}

		var raw []string
		for _, n := range r.Tags {
			if n.Kind == yaml.ScalarNode {
				raw = append(raw, n.Value)
			}
		}
		tags := NormalizeTags(raw)
		if len(tags) == 0 {
			continue
		}

		if title := reference.CanonicalTitle(r.Title); title != "" {
			idx.ByTitle[title] = tags
		}
		if doi := ident.NormalizeDOI(r.DOI); doi != "" {
			idx.ByDOI[doi] = tags
		}
	}

	return idx, nil
}

// Lookup returns the tags for a publication, matching by DOI first and
// canonical title second.
func (idx *Index) Lookup(doi, title string) []string {
	if idx == nil {
		return nil
	}
	if key := ident.NormalizeDOI(doi); key != "" {
		if tags, ok := idx.ByDOI[key]; ok {
			return NormalizeTags(tags)
		}
	}
	return NormalizeTags(idx.ByTitle[reference.CanonicalTitle(title)])
}

// Len returns the number of distinct keys in the index.
func (idx *Index) Len() int {
	return len(idx.ByDOI) + len(idx.ByTitle)
}

// NormalizeTags lowercases tags, joins inner whitespace with "-" and drops
// blanks and duplicates.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.Join(strings.Fields(strings.ToLower(t)), "-")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
