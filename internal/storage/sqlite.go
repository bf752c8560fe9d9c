package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/bibmerge/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	// Create schema if needed
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Publications in output order; pos is the JSONL line index
		CREATE TABLE IF NOT EXISTS publications (
			pos INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			authors TEXT,
			year TEXT,
			venue TEXT,
			doi TEXT,
			arxiv TEXT,
			url TEXT,
			record_json TEXT NOT NULL
		);

		-- Index for DOI lookups
		CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Full-text search virtual table (standalone, not external content)
		-- rowid matches publications.pos
		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			title,
			authors,
			venue
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	pubs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	if err := d.Load(pubs); err != nil {
		return 0, err
	}
	return len(pubs), nil
}

// Load replaces the database contents with pubs.
func (d *DB) Load(pubs []reference.Publication) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return fmt.Errorf("clearing publications table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM publications_fts"); err != nil {
		return fmt.Errorf("clearing publications_fts table: %w", err)
	}

	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (pos, title, authors, year, venue, doi, arxiv, url, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO publications_fts (rowid, title, authors, venue)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, pub := range pubs {
		record, err := json.Marshal(pub)
		if err != nil {
			return fmt.Errorf("encoding publication %d: %w", i, err)
		}

		_, err = pubStmt.Exec(
			i, pub.Title, nullableStringValue(pub.Authors), nullableStringValue(pub.Year),
			nullableStringValue(pub.Venue), nullableStringValue(pub.DOI),
			nullableStringValue(pub.ArXiv), nullableStringValue(pub.URL),
			string(record),
		)
		if err != nil {
			return fmt.Errorf("inserting publication %d: %w", i, err)
		}

		// Every venue is searchable, not only the display one
		_, err = ftsStmt.Exec(i, pub.Title, pub.Authors, strings.Join(pub.Venues, " ; "))
		if err != nil {
			return fmt.Errorf("inserting fts for publication %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Search performs a full-text search over title, authors and venues.
// Results keep output order.
func (d *DB) Search(query string, limit int) ([]reference.Publication, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	return d.searchFTS(ftsQuery, limit)
}

// SearchField performs a search on a specific field.
func (d *DB) SearchField(field, value string, limit int) ([]reference.Publication, error) {
	var column string

	switch field {
	case "author":
		column = "authors"
	case "title", "venue":
		column = field
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}

	ftsQuery := prepareFTSQuery(value)
	if ftsQuery == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ftsQuery, "\"") {
		// Scope every bare term to the column. Lowercase terms are never
		// read as FTS5 operators.
		var terms []string
		for _, word := range strings.Fields(ftsQuery) {
			terms = append(terms, column+":"+strings.ToLower(word))
		}
		return d.searchFTS(strings.Join(terms, " AND "), limit)
	}
	return d.searchFTS(column+":"+ftsQuery, limit)
}

func (d *DB) searchFTS(ftsQuery string, limit int) ([]reference.Publication, error) {
	query := `
		SELECT record_json
		FROM publications
		WHERE pos IN (SELECT rowid FROM publications_fts WHERE publications_fts MATCH ?)
		ORDER BY pos`
	args := []interface{}{ftsQuery}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// GetByDOI retrieves a publication by normalized DOI. Returns nil if absent.
func (d *DB) GetByDOI(doi string) (*reference.Publication, error) {
	row := d.db.QueryRow(`SELECT record_json FROM publications WHERE doi = ? ORDER BY pos LIMIT 1`, doi)
	return scanPublication(row)
}

// ListAll returns all publications in output order, optionally limited.
func (d *DB) ListAll(limit int) ([]reference.Publication, error) {
	query := `SELECT record_json FROM publications ORDER BY pos`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// Count returns the total number of publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(s scanner) (*reference.Publication, error) {
	var record string
	if err := s.Scan(&record); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var pub reference.Publication
	if err := json.Unmarshal([]byte(record), &pub); err != nil {
		return nil, fmt.Errorf("parsing stored publication: %w", err)
	}
	return &pub, nil
}

func scanPublications(rows *sql.Rows) ([]reference.Publication, error) {
	var pubs []reference.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		if pub != nil {
			pubs = append(pubs, *pub)
		}
	}
	return pubs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	// Plain words pass through; FTS5 uses double quotes for phrase matching
	query = strings.TrimSpace(query)
	if query == "" || isBarewords(query) {
		return query
	}

	// Escape internal quotes and wrap in quotes
	query = strings.ReplaceAll(query, "\"", "\"\"")
	return "\"" + query + "\""
}

// isBarewords reports whether query holds only characters FTS5 accepts in
// unquoted terms.
func isBarewords(query string) bool {
	for _, r := range query {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '_' {
			return false
		}
	}
	return true
}
