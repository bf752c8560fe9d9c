package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvInputDir = "BIBMERGE_INPUT_DIR"
	EnvAuthors  = "BIBMERGE_AUTHORS"
)

// EnvListSeparator separates author queries in BIBMERGE_AUTHORS.
const EnvListSeparator = ";"

// LoadDotEnv loads .env from the working directory if present. Variables
// already set in the environment are not overridden.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides configuration from the environment.
func (c *Config) ApplyEnv() {
	if dir := strings.TrimSpace(os.Getenv(EnvInputDir)); dir != "" {
		c.InputDir = ExpandPath(dir)
	}
	if raw, ok := os.LookupEnv(EnvAuthors); ok {
		c.Authors = SplitList(raw)
	}
}

// SplitList splits a separated list, dropping blank items.
func SplitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, EnvListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
