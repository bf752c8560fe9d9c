package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from the JSONL dump",
	Long: `Rebuild the SQLite search database from the JSONL file written by build.

Use this after pulling changes from git or if the database becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string `json:"status"`
	Publications int    `json:"publications"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cfg.Outputs.JSONL == "" {
		exitWithError(ExitConfigError, "no JSONL source configured (outputs.jsonl is empty)")
	}

	db := mustOpenDatabase(cfg)
	defer db.Close()

	count, err := db.RebuildFromJSONL(cfg.Outputs.JSONL)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding publications database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d publications\n", count)
	} else {
		outputJSON(RebuildResult{
			Status:       "rebuilt",
			Publications: count,
		})
	}

	return nil
}
