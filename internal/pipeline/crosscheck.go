package pipeline

import (
	"sort"
	"strings"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/thomjur/verifybibtex/parser"
)

// CrossCheckReport compares the citation keys recovered from one source by
// the lenient scanner with those recovered by a strict BibTeX parser.
type CrossCheckReport struct {
	Source      string   `json:"source"`
	LenientKeys int      `json:"lenient_keys"`
	StrictKeys  int      `json:"strict_keys"`
	OnlyLenient []string `json:"only_lenient,omitempty"`
	OnlyStrict  []string `json:"only_strict,omitempty"`
	StrictError string   `json:"strict_error,omitempty"`
}

// OK reports whether both parsers agree on the source.
func (r CrossCheckReport) OK() bool {
	return r.StrictError == "" && len(r.OnlyLenient) == 0 && len(r.OnlyStrict) == 0
}

// nonEntryKinds are BibTeX directives that carry no citation key.
var nonEntryKinds = map[string]bool{
	"comment":  true,
	"preamble": true,
	"string":   true,
}

// CrossCheck parses src with both parsers. Keys are compared
// case-insensitively; the returned lists are sorted.
func CrossCheck(src Source) CrossCheckReport {
	report := CrossCheckReport{Source: src.Label}

	lenient := make(map[string]bool)
	for _, e := range bibtex.Scan(src.Text, src.Label) {
		if !e.Complete || nonEntryKinds[e.Kind] {
			continue
		}
		rec, ok := bibtex.ParseEntry(e)
		if !ok || rec.Key == "" {
			continue
		}
		lenient[strings.ToLower(rec.Key)] = true
	}
	report.LenientKeys = len(lenient)

	strict := make(map[string]bool)
	file, err := parser.ParseNewBibTeXFile(strings.NewReader(src.Text))
	if err != nil {
		report.StrictError = err.Error()
	}
	if file != nil {
		for _, e := range file.Entries {
			if key := strings.TrimSpace(e.Key); key != "" {
				strict[strings.ToLower(key)] = true
			}
		}
	}
	report.StrictKeys = len(strict)

	report.OnlyLenient = difference(lenient, strict)
	report.OnlyStrict = difference(strict, lenient)
	return report
}

// CrossCheckAll runs CrossCheck over every source in order.
func CrossCheckAll(sources []Source) []CrossCheckReport {
	reports := make([]CrossCheckReport, 0, len(sources))
	for _, src := range sources {
		reports = append(reports, CrossCheck(src))
	}
	return reports
}

func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
