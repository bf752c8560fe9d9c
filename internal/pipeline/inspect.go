package pipeline

import (
	"strings"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/reconcile"
)

// Issue types reported by Inspect.
const (
	IssueIncomplete   = "incomplete"
	IssueUnparsable   = "unparsable"
	IssueUntitled     = "untitled"
	IssueDuplicateKey = "duplicate_key"
)

// Issue is a problem with one raw entry.
type Issue struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Line   int    `json:"line"`
	Key    string `json:"key,omitempty"`
}

// Inspect scans and parses sources without reconciling, and reports every
// entry that would not reach reconciliation. Citation keys repeated within
// one source are reported on their second and later occurrences.
func Inspect(sources []Source) ([]Issue, Stats) {
	var issues []Issue
	var stats Stats
	stats.Files = len(sources)

	for _, src := range sources {
		seen := make(map[string]bool)

		for _, e := range bibtex.Scan(src.Text, src.Label) {
			if nonEntryKinds[e.Kind] {
				continue
			}
			stats.Entries++
			issue := Issue{Source: e.Source, Line: e.Line}

			rec, ok := bibtex.ParseEntry(e)
			if ok {
				issue.Key = rec.Key
			}

			switch {
			case !e.Complete:
				stats.Incomplete++
				issue.Type = IssueIncomplete
			case !ok:
				stats.Untitled++
				issue.Type = IssueUnparsable
			default:
				if _, lifted := reconcile.Lift(rec); !lifted {
					stats.Untitled++
					issue.Type = IssueUntitled
					break
				}
				stats.Parsed++
				key := strings.ToLower(rec.Key)
				if key != "" && seen[key] {
					issue.Type = IssueDuplicateKey
				}
				seen[key] = true
			}

			if issue.Type != "" {
				issues = append(issues, issue)
			}
		}
	}

	return issues, stats
}
