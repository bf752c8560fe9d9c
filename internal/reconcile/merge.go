package reconcile

import (
	"strings"
	"unicode/utf8"

	"github.com/matsen/bibmerge/internal/reference"
)

// Merge combines two publications that share an identity key.
//
// Scalar fields keep the present value; when both are present the longer
// one wins (measured in characters). Equal-length values resolve to the
// lexicographically smaller one, so the result does not depend on argument
// order. Venues are unioned case-insensitively; source files, keys and entry
// kinds are unioned exactly. All unions keep first-seen order.
func Merge(existing, incoming reference.Publication) reference.Publication {
	merged := reference.Publication{
		Title:   preferLonger(existing.Title, incoming.Title),
		Authors: preferLonger(existing.Authors, incoming.Authors),
		Year:    preferLonger(existing.Year, incoming.Year),
		DOI:     preferLonger(existing.DOI, incoming.DOI),
		URL:     preferLonger(existing.URL, incoming.URL),
		ArXiv:   preferLonger(existing.ArXiv, incoming.ArXiv),

		Venues:      MergeVenues(existing.Venues, incoming.Venues),
		SourceFiles: union(existing.SourceFiles, incoming.SourceFiles),
		SourceKeys:  union(existing.SourceKeys, incoming.SourceKeys),
		EntryKinds:  union(existing.EntryKinds, incoming.EntryKinds),
	}
	merged.Venue = SelectPrimaryVenue(merged.Venues)
	return merged
}

// preferLonger picks between two optional values.
func preferLonger(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	switch {
	case lb > la:
		return b
	case la > lb:
		return a
	case b < a:
		return b
	default:
		return a
	}
}

// MergeVenues unions venue lists, dropping blanks and case-insensitive
// duplicates. The first spelling seen is kept.
func MergeVenues(left, right []string) []string {
	var merged []string
	seen := make(map[string]bool)

	for _, list := range [][]string{left, right} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, v)
		}
	}

	return merged
}

// SelectPrimaryVenue picks the display venue: the longest venue that does
// not mention arXiv, or the longest overall if every venue does.
// Returns "" for an empty list.
func SelectPrimaryVenue(venues []string) string {
	list := MergeVenues(venues, nil)
	if len(list) == 0 {
		return ""
	}

	var pool []string
	for _, v := range list {
		if !strings.Contains(strings.ToLower(v), "arxiv") {
			pool = append(pool, v)
		}
	}
	if len(pool) == 0 {
		pool = list
	}

	best := pool[0]
	for _, v := range pool[1:] {
		best = preferLonger(best, v)
	}
	return best
}

// union appends the values of right missing from left, skipping blanks.
func union(left, right []string) []string {
	var out []string
	seen := make(map[string]bool, len(left)+len(right))

	for _, list := range [][]string{left, right} {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}

	return out
}
