// Package db provides the embedded DuckDB sink the importers write to.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// MaxAlleleLen is the widest ref/alt column the variant tables accept.
// Variants with longer alleles are skipped upstream, not truncated here.
const MaxAlleleLen = 500

// Store manages a DuckDB connection for one import run.
//
// A Store is single-threaded by design: importers stream records and
// persist them one at a time. Each import recreates its target table, so
// concurrent runs against the same database file must be serialized by
// the caller.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// RecreateTable drops the table if it exists and creates it fresh from
// the given column definition. After it returns the table exists and is
// empty; partial state from a previously failed run is gone.
func (s *Store) RecreateTable(name, columns string) error {
	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	if _, err := s.db.Exec("CREATE TABLE " + name + " (" + columns + ")"); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// CreateIndexes runs the given CREATE INDEX statements in order.
func (s *Store) CreateIndexes(queries ...string) error {
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Exec runs a single statement, typically an upsert.
func (s *Store) Exec(query string, args ...interface{}) error {
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("exec statement: %w", err)
	}
	return nil
}
