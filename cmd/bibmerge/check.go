package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/bibmerge/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	checkInput  string
	checkStrict bool
)

func init() {
	checkCmd.Flags().StringVar(&checkInput, "input", "", "Input directory containing .bib files (default: bibtex)")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Also parse each file with a strict BibTeX parser and compare citation keys")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify BibTeX sources without writing outputs",
	Long: `Scan and parse every .bib file in the input directory and report entries
that would not reach reconciliation: truncated entries, entries without a
title, and citation keys repeated within a file.

With --strict, each file is also parsed by an independent strict BibTeX
parser, and files where the two parsers disagree on citation keys are
reported.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status string                      `json:"status"`
	Stats  pipeline.Stats              `json:"stats"`
	Issues []pipeline.Issue            `json:"issues"`
	Strict []pipeline.CrossCheckReport `json:"strict,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cmd.Flags().Changed("input") {
		cfg.InputDir = checkInput
	}

	paths, err := pipeline.FindSources(cfg.InputDir)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInputFiles) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	sources, err := pipeline.LoadSources(paths)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	result := checkSources(sources, checkStrict)

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

// checkSources inspects sources and, when strict, cross-checks each one.
func checkSources(sources []pipeline.Source, strict bool) CheckResult {
	issues, stats := pipeline.Inspect(sources)

	// Ensure issues is an empty array, not null
	if issues == nil {
		issues = []pipeline.Issue{}
	}
	result := CheckResult{Status: "ok", Stats: stats, Issues: issues}

	if strict {
		result.Strict = pipeline.CrossCheckAll(sources)
		for _, r := range result.Strict {
			if !r.OK() {
				result.Status = "issues"
			}
		}
	}
	if len(issues) > 0 {
		result.Status = "issues"
	}
	return result
}

func printCheckHuman(r CheckResult) {
	s := r.Stats
	if r.Status == "ok" {
		fmt.Printf("BibTeX check: OK\n\n%d entries in %d files checked\n", s.Entries, s.Files)
		return
	}

	fmt.Printf("BibTeX check: %d issues found\n\n", len(r.Issues))
	for _, issue := range r.Issues {
		where := fmt.Sprintf("%s:%d", issue.Source, issue.Line)
		switch issue.Type {
		case pipeline.IssueIncomplete:
			fmt.Printf("  [WARN] Incomplete entry %s at %s (entry may be truncated)\n", issue.Key, where)
		case pipeline.IssueUnparsable:
			fmt.Printf("  [WARN] Unparsable entry at %s\n", where)
		case pipeline.IssueUntitled:
			fmt.Printf("  [WARN] Entry %s at %s has no title\n", issue.Key, where)
		case pipeline.IssueDuplicateKey:
			fmt.Printf("  [WARN] Duplicate citation key %s at %s\n", issue.Key, where)
		}
	}

	for _, cc := range r.Strict {
		if cc.OK() {
			continue
		}
		fmt.Printf("  [WARN] Strict parser disagrees on %s (%d lenient keys, %d strict keys)\n",
			cc.Source, cc.LenientKeys, cc.StrictKeys)
		if cc.StrictError != "" {
			fmt.Printf("         Error: %s\n", cc.StrictError)
		}
		if len(cc.OnlyLenient) > 0 {
			fmt.Printf("         Only lenient: %s\n", strings.Join(cc.OnlyLenient, ", "))
		}
		if len(cc.OnlyStrict) > 0 {
			fmt.Printf("         Only strict: %s\n", strings.Join(cc.OnlyStrict, ", "))
		}
	}

	fmt.Printf("\n%d entries in %d files checked\n", s.Entries, s.Files)
}
