// Package main provides the bibmerge CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibmerge/internal/config"
	"github.com/matsen/bibmerge/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is an explicit config file; empty means search upward from cwd
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibmerge",
	Short: "Merge BibTeX exports into one publication list",
	Long: `bibmerge reconciles BibTeX files exported from several reference
managers into one deduplicated publication list.

Entries are matched by DOI, citation key, arXiv id and finally by title.
The result is written as CSV and YAML (plus optional JSONL, XLSX and BibTeX)
and indexed in an ephemeral SQLite database for search.

Configuration is read from bibmerge.yml, the environment (.env is loaded
if present) and flags, in increasing order of precedence.
All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to bibmerge.yml (default: search upward from the current directory)")
	rootCmd.Version = Version
}

// loadConfig resolves configuration from the config file, the environment
// and defaults. Flags are applied by each command afterwards.
func loadConfig() (*config.Config, error) {
	config.LoadDotEnv()

	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		if path, err = config.FindConfig(cwd); err != nil {
			return nil, err
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// openDatabase opens the SQLite index, creating its directory.
// The caller is responsible for calling Close() on the returned DB.
func openDatabase(path string) (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return storage.OpenDB(path)
}

// mustOpenDatabase opens the SQLite index, exits on error.
func mustOpenDatabase(cfg *config.Config) *storage.DB {
	if cfg.Outputs.DB == "" {
		exitWithError(ExitConfigError, "no database configured (outputs.db is empty)")
	}
	db, err := openDatabase(cfg.Outputs.DB)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
