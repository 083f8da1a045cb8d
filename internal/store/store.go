// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists embedded article sections in SQLite and answers
// nearest-neighbour queries over them.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/llm-wikimedia/pkg/types"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "wikimedia.db"

var (
	// ErrModelMismatch is returned when a collection is reused with a
	// different embedding model.
	ErrModelMismatch = errors.New("collection model mismatch")
	// ErrNoCollection is returned for queries against an unknown collection.
	ErrNoCollection = errors.New("no such collection")
)

// Record is one stored section.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	Content     string    `json:"content" yaml:"content"`
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	Vector      []float32 `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Store manages the embedding database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at cfg.Path and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			vector TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// EnsureCollection creates the collection bound to model, or verifies that
// an existing one uses the same model.
func (s *Store) EnsureCollection(ctx context.Context, name, model string) error {
	var existing string
	err := s.db.QueryRowContext(ctx, `SELECT model FROM collections WHERE name = ?`, name).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO collections (name, model, created_at) VALUES (?, ?, ?)`,
			name, model, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("looking up collection %s: %w", name, err)
	case existing != model:
		return fmt.Errorf("%w: %s uses %s, not %s", ErrModelMismatch, name, existing, model)
	}
	return nil
}

// CollectionModel returns the model a collection was created with.
func (s *Store) CollectionModel(ctx context.Context, name string) (string, error) {
	var model string
	err := s.db.QueryRowContext(ctx, `SELECT model FROM collections WHERE name = ?`, name).Scan(&model)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoCollection, name)
	}
	if err != nil {
		return "", fmt.Errorf("looking up collection %s: %w", name, err)
	}
	return model, nil
}

// Unchanged reports whether id is stored in collection with the given hash.
func (s *Store) Unchanged(ctx context.Context, collection, id, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM embeddings WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", id, err)
	}
	return stored == hash, nil
}

// Upsert inserts or replaces a record. An empty ContentHash is computed
// from Content.
func (s *Store) Upsert(ctx context.Context, collection string, r Record) error {
	if r.ContentHash == "" {
		r.ContentHash = ContentHash(r.Content)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	vec, err := json.Marshal(r.Vector)
	if err != nil {
		return fmt.Errorf("encoding vector for %s: %w", r.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO embeddings (collection, id, content, content_hash, vector, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(collection, id) DO UPDATE SET
			content=excluded.content, content_hash=excluded.content_hash,
			vector=excluded.vector, updated_at=excluded.updated_at`,
		collection, r.ID, r.Content, r.ContentHash, string(vec), r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", r.ID, err)
	}
	return nil
}

// List returns every record in collection ordered by id.
func (s *Store) List(ctx context.Context, collection string) ([]Record, error) {
	if _, err := s.CollectionModel(ctx, collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, content_hash, vector, updated_at
		 FROM embeddings WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			vecJSON string
			updated string
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.ContentHash, &vecJSON, &updated); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(vecJSON), &r.Vector); err != nil {
			return nil, fmt.Errorf("decoding vector for %s: %w", r.ID, err)
		}
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			r.UpdatedAt = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
