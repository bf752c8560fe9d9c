package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRow is the site data shape of one publication. Field order is the
// key order in the output.
type yamlRow struct {
	Title       string   `yaml:"title"`
	Authors     string   `yaml:"authors,omitempty"`
	Year        *int     `yaml:"year,omitempty"`
	Venue       string   `yaml:"venue,omitempty"`
	Venues      []string `yaml:"venues,omitempty"`
	ArXiv       string   `yaml:"arxiv,omitempty"`
	DOI         string   `yaml:"doi,omitempty"`
	ProjectPage string   `yaml:"project_page,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

func toYAMLRow(r Row) yamlRow {
	out := yamlRow{
		Title:       r.Title,
		Authors:     r.Authors,
		Venue:       r.Venue,
		ArXiv:       r.ArXiv,
		DOI:         r.DOI,
		ProjectPage: r.ProjectPage(),
		Tags:        r.Tags,
	}
	if r.HasYear {
		year := r.SortYear
		out.Year = &year
	}
	// A single venue is already the display venue
	if len(r.Venues) > 1 {
		out.Venues = r.Venues
	}
	return out
}

// WriteYAML writes the rows as a YAML list of mappings.
func WriteYAML(w io.Writer, rows []Row) error {
	out := make([]yamlRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toYAMLRow(r))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return nil
}
