// Package storage persists reconciled publications as JSONL and indexes
// them in an ephemeral SQLite database for search.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibmerge/internal/ident"
	"github.com/matsen/bibmerge/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all publications from a JSONL file.
func ReadAll(path string) ([]reference.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file reads as empty
		}
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	var pubs []reference.Publication
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var pub reference.Publication
		if err := json.Unmarshal(line, &pub); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, pub)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications file: %w", err)
	}

	return pubs, nil
}

// WriteAll writes all publications to a JSONL file, replacing existing content.
func WriteAll(path string, pubs []reference.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating publications file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Encode(w, pubs); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing publications file: %w", err)
	}
	return nil
}

// Encode writes one JSON object per line.
func Encode(w io.Writer, pubs []reference.Publication) error {
	for i, pub := range pubs {
		data, err := json.Marshal(pub)
		if err != nil {
			return fmt.Errorf("encoding publication %d: %w", i, err)
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing publication %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}

// FindByDOI searches for a publication by DOI, in any spelling NormalizeDOI
// accepts.
func FindByDOI(pubs []reference.Publication, doi string) (int, bool) {
	doi = ident.NormalizeDOI(doi)
	if doi == "" {
		return -1, false
	}
	for i, pub := range pubs {
		if ident.NormalizeDOI(pub.DOI) == doi {
			return i, true
		}
	}
	return -1, false
}
