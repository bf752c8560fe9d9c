// Package ident normalizes and extracts publication identifiers.
package ident

import (
	"regexp"
	"strings"
)

// doiResolverPrefix matches resolver URLs such as https://dx.doi.org/.
var doiResolverPrefix = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)

// NormalizeDOI normalizes a DOI for comparison.
// Lowercases and removes common prefixes like "https://doi.org/" and "doi:".
// Returns "" for empty input.
func NormalizeDOI(doi string) string {
	doi = strings.ToLower(strings.TrimSpace(doi))
	if doi == "" {
		return ""
	}
	doi = doiResolverPrefix.ReplaceAllString(doi, "")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.TrimSpace(doi)
}
