package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/matsen/bibmerge/internal/author"
	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/export"
	"github.com/matsen/bibmerge/internal/pipeline"
	"github.com/matsen/bibmerge/internal/reference"
	"github.com/matsen/bibmerge/internal/storage"
	"github.com/matsen/bibmerge/internal/tags"
	"github.com/spf13/cobra"
)

var (
	buildInput    string
	buildCSVOut   string
	buildYAMLOut  string
	buildJSONLOut string
	buildXLSXOut  string
	buildBibOut   string
	buildDBOut    string
	buildAuthors  []string
	buildDryRun   bool
)

func init() {
	buildCmd.Flags().StringVar(&buildInput, "input", "", "Input directory containing .bib files (default: bibtex)")
	buildCmd.Flags().StringVar(&buildCSVOut, "csv-out", "", "Output CSV path (default: bibtex/publications_master.csv)")
	buildCmd.Flags().StringVar(&buildYAMLOut, "yaml-out", "", "Output YAML path (default: _data/publications.yml)")
	buildCmd.Flags().StringVar(&buildJSONLOut, "jsonl-out", "", "Output JSONL path, the source for rebuild and search")
	buildCmd.Flags().StringVar(&buildXLSXOut, "xlsx-out", "", "Output XLSX path (off unless set)")
	buildCmd.Flags().StringVar(&buildBibOut, "bib-out", "", "Output merged BibTeX path (off unless set)")
	buildCmd.Flags().StringVar(&buildDBOut, "db", "", "SQLite index path")
	buildCmd.Flags().StringArrayVarP(&buildAuthors, "author", "a", nil, "Keep publications by this author (repeatable; replaces configured authors)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Run the pipeline and report counts without writing outputs")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Reconcile BibTeX files and write the publication list",
	Long: `Reconcile every .bib file in the input directory into one publication list.

Entries are deduplicated by DOI, then citation key, then arXiv id, and a
second pass merges entries whose titles match. Publications are kept when
an author matches one of the configured queries (all are kept when none
are configured), then sorted by year (newest first) and title.

Tags already present in the YAML output are carried over, matched by DOI
and then by title. Outputs are written only after the whole pipeline
succeeds.

Examples:
  bibmerge build
  bibmerge build --input refs --author "Chris Pal"
  bibmerge build --xlsx-out out/publications.xlsx --bib-out out/merged.bib
  bibmerge build --dry-run --human`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

// BuildResult is the response for the build command.
type BuildResult struct {
	Status   string             `json:"status"`
	Stats    pipeline.Stats     `json:"stats"`
	Kept     int                `json:"kept"`
	Tagged   int                `json:"tagged"`
	Outputs  []string           `json:"outputs"`
	Warnings []pipeline.Warning `json:"warnings"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyBuildFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	result, err := executeBuild(cfg, buildDryRun)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInputFiles) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	printWarnings(result.Warnings)

	if humanOutput {
		printBuildHuman(result, buildDryRun)
	} else {
		outputJSON(result)
	}
	return nil
}

// applyBuildFlags overrides configuration with flags the user set.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputDir = config.ExpandPath(buildInput)
	}
	if flags.Changed("csv-out") {
		cfg.Outputs.CSV = buildCSVOut
	}
	if flags.Changed("yaml-out") {
		cfg.Outputs.YAML = buildYAMLOut
	}
	if flags.Changed("jsonl-out") {
		cfg.Outputs.JSONL = buildJSONLOut
	}
	if flags.Changed("xlsx-out") {
		cfg.Outputs.XLSX = buildXLSXOut
	}
	if flags.Changed("bib-out") {
		cfg.Outputs.Bib = buildBibOut
	}
	if flags.Changed("db") {
		cfg.Outputs.DB = buildDBOut
	}
	if flags.Changed("author") {
		cfg.Authors = buildAuthors
	}
}

// executeBuild runs the pipeline and, unless dryRun, writes every configured
// output. Nothing is written when sources cannot be found or read.
func executeBuild(cfg *config.Config, dryRun bool) (*BuildResult, error) {
	paths, err := pipeline.FindSources(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	sources, err := pipeline.LoadSources(paths)
	if err != nil {
		return nil, err
	}

	res := pipeline.Run(sources)
	kept := author.NewFilter(cfg.Authors).Apply(res.Publications)

	result := &BuildResult{
		Status:   "built",
		Stats:    res.Stats,
		Kept:     len(kept),
		Outputs:  []string{},
		Warnings: res.Warnings,
	}
	if result.Warnings == nil {
		result.Warnings = []pipeline.Warning{}
	}

	var idx *tags.Index
	if cfg.Outputs.YAML != "" {
		idx, err = tags.Load(cfg.Outputs.YAML)
		if err != nil {
			result.Warnings = append(result.Warnings, pipeline.Warning{
				Source:  cfg.Outputs.YAML,
				Message: fmt.Sprintf("Failed to read existing tags from %s: %v", cfg.Outputs.YAML, err),
			})
		}
	}

	rows := export.BuildRows(kept, idx)
	for _, r := range rows {
		if len(r.Tags) > 0 {
			result.Tagged++
		}
	}

	if dryRun {
		result.Status = "dry_run"
		return result, nil
	}

	ordered := make([]reference.Publication, 0, len(rows))
	for _, r := range rows {
		ordered = append(ordered, r.Publication)
	}

	writers := []struct {
		path  string
		write func(w io.Writer) error
	}{
		{cfg.Outputs.CSV, func(w io.Writer) error { return export.WriteCSV(w, rows) }},
		{cfg.Outputs.YAML, func(w io.Writer) error { return export.WriteYAML(w, rows) }},
		{cfg.Outputs.JSONL, func(w io.Writer) error { return storage.Encode(w, ordered) }},
		{cfg.Outputs.XLSX, func(w io.Writer) error { return export.WriteXLSX(w, rows) }},
		{cfg.Outputs.Bib, func(w io.Writer) error { return export.WriteBibTeX(w, rows) }},
	}
	for _, out := range writers {
		if out.path == "" {
			continue
		}
		if err := export.WriteFileAtomic(out.path, out.write); err != nil {
			return nil, fmt.Errorf("writing %s: %w", out.path, err)
		}
		result.Outputs = append(result.Outputs, out.path)
	}

	if cfg.Outputs.DB != "" {
		if err := indexPublications(cfg.Outputs.DB, ordered); err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, cfg.Outputs.DB)
	}

	return result, nil
}

// indexPublications replaces the SQLite index contents.
func indexPublications(path string, pubs []reference.Publication) error {
	db, err := openDatabase(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Load(pubs); err != nil {
		return fmt.Errorf("indexing publications: %w", err)
	}
	return nil
}

func printBuildHuman(r *BuildResult, dryRun bool) {
	s := r.Stats
	fmt.Printf("Processed %d bib files\n", s.Files)
	fmt.Printf("Parsed %d entries (%d incomplete source entries encountered)\n", s.Parsed, s.Incomplete)
	fmt.Printf("Deduped to %d unique publications by DOI/bibkey/arXiv\n", s.Primary)
	fmt.Printf("Deduped to %d unique publications after title merge\n", s.Final)

	if dryRun {
		fmt.Printf("Would write %d publications (%d tagged); dry run, nothing written\n", r.Kept, r.Tagged)
		return
	}

	fmt.Printf("Wrote %d publications (%d tagged):\n", r.Kept, r.Tagged)
	for _, path := range r.Outputs {
		fmt.Printf("- %s\n", path)
	}
}
