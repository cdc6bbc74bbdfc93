// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a local SQLite table of records the user already
// trusts (landmark cases, house style references, frequently cited papers)
// and serves them as the cheapest tier of the resolver.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cite-resolver/internal/normalize"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// EngineID is the adapter identifier the catalog registers under.
const EngineID = "catalog"

// maxMatches caps rows returned for one lookup.
const maxMatches = 5

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			title_key TEXT NOT NULL,
			year INTEGER,
			doi TEXT,
			isbn TEXT,
			arxiv_id TEXT,
			case_citation TEXT,
			record TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_records_isbn ON records(isbn)`,
		`CREATE INDEX IF NOT EXISTS idx_records_case ON records(case_citation)`,
		`CREATE INDEX IF NOT EXISTS idx_records_title_key ON records(title_key)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// titleKey folds a title to lowercase ASCII tokens for equality lookups.
func titleKey(title string) string {
	return strings.Join(normalize.Tokens(title), " ")
}

// Add inserts records. Records with an empty title are rejected; a DOI,
// ISBN or case citation already present replaces the stored row.
func (s *Store) Add(ctx context.Context, records []types.CanonicalMetadata) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for i, rec := range records {
		rec.Title = normalize.CleanTitle(rec.Title)
		if rec.Title == "" {
			return 0, fmt.Errorf("record %d: empty title", i)
		}
		if rec.Type == "" {
			rec.Type = types.TypeUnknown
		}
		if !rec.Type.Valid() {
			return 0, fmt.Errorf("record %d: unknown type %q", i, rec.Type)
		}
		rec.Identifiers.DOI = normalize.CleanDOI(rec.Identifiers.DOI)
		rec.Confidence = 0
		rec.Source = ""

		if err := deleteDuplicates(ctx, tx, rec.Identifiers); err != nil {
			return 0, err
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("record %d: encoding: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (type, title, title_key, year, doi, isbn, arxiv_id, case_citation, record)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(rec.Type), rec.Title, titleKey(rec.Title), rec.Year,
			nullable(strings.ToLower(rec.Identifiers.DOI)), nullable(rec.Identifiers.ISBN),
			nullable(rec.Identifiers.ArXivID), nullable(rec.Identifiers.CaseCitation), string(payload))
		if err != nil {
			return 0, fmt.Errorf("record %d: inserting: %w", i, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return added, nil
}

func deleteDuplicates(ctx context.Context, tx *sql.Tx, id types.Identifiers) error {
	clauses := map[string]string{
		"doi":           strings.ToLower(id.DOI),
		"isbn":          id.ISBN,
		"case_citation": id.CaseCitation,
	}
	for col, v := range clauses {
		if v == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE `+col+` = ?`, v); err != nil {
			return fmt.Errorf("replacing %s %s: %w", col, v, err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Import reads a YAML list of records from r and adds them.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	var records []types.CanonicalMetadata
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return s.Add(ctx, records)
}

// Lookup returns stored records matching q: by identifier when the query
// carries one, otherwise by exact folded title.
func (s *Store) Lookup(ctx context.Context, q types.Query) ([]types.CanonicalMetadata, error) {
	var (
		where string
		arg   string
	)
	switch {
	case q.DOI != "":
		where, arg = "doi = ?", strings.ToLower(normalize.CleanDOI(q.DOI))
	case q.ISBN != "":
		where, arg = "isbn = ?", q.ISBN
	case q.ArXivID != "":
		where, arg = "arxiv_id = ?", q.ArXivID
	case q.CaseCitation != "":
		where, arg = "case_citation = ?", q.CaseCitation
	case q.Title != "":
		where, arg = "title_key = ?", titleKey(q.Title)
	default:
		return nil, nil
	}
	if arg == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM records WHERE `+where+` ORDER BY id LIMIT ?`, arg, maxMatches)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []types.CanonicalMetadata
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.CanonicalMetadata
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
