package ident

import (
	"regexp"
	"strings"
)

// ArXivAbsURL is the canonical abstract page prefix.
const ArXivAbsURL = "https://arxiv.org/abs/"

// arxivIDPattern covers legacy ids (hep-th/9901001) and modern ids
// (2101.01234, 1234.5678v2).
const arxivIDPattern = `([a-z\-\.]+/\d{7}|\d{4}\.\d{4,5}(?:v\d+)?)`

// Patterns tried in order: a host-qualified link, then an "arXiv:" label.
var arxivPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/` + arxivIDPattern),
	regexp.MustCompile(`(?i)arxiv:\s*` + arxivIDPattern),
}

// ExtractArXivID finds the first arXiv identifier in s.
// Returns "" if s contains none.
func ExtractArXivID(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	for _, p := range arxivPatterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// ArXivLink derives the arXiv abstract URL for a record.
//
// An explicit eprint is used when archivePrefix is "arxiv" (any case).
// Otherwise each candidate (typically the URL, then the venue) is searched
// in order for an embedded identifier. Returns "" if nothing matches.
func ArXivLink(eprint, archivePrefix string, candidates ...string) string {
	eprint = strings.TrimSpace(eprint)
	if eprint != "" && strings.EqualFold(strings.TrimSpace(archivePrefix), "arxiv") {
		return ArXivAbsURL + eprint
	}

	for _, c := range candidates {
		if id := ExtractArXivID(c); id != "" {
			return ArXivAbsURL + id
		}
	}
	return ""
}
