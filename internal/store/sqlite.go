package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tpdash/tprules/internal/domain"
)

//go:embed schema.sql
var schema string

// Snapshot is metadata about one recorded compile run.
type Snapshot struct {
	ID          string    `json:"id"`
	ExcelSource string    `json:"excel_source"`
	FYE         string    `json:"fye"`
	GeneratedAt string    `json:"generated_at"`
	Countries   int       `json:"countries"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store records compiled documents so past runs can be listed and served.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the snapshot database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument records a compiled document as a new snapshot.
func (s *Store) SaveDocument(doc *domain.Document) (*Snapshot, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	snap := &Snapshot{
		ID:          uuid.New().String(),
		ExcelSource: doc.ExcelSource,
		FYE:         doc.FYE,
		GeneratedAt: doc.GeneratedAt,
		Countries:   len(doc.Countries),
		CreatedAt:   time.Now(),
	}

	_, err = s.db.Exec(
		"INSERT INTO snapshots (id, excel_source, fye, generated_at, countries, document, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		snap.ID, snap.ExcelSource, snap.FYE, snap.GeneratedAt, snap.Countries, string(raw), snap.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first.
func (s *Store) ListSnapshots(limit, offset int) ([]Snapshot, error) {
	rows, err := s.db.Query(
		"SELECT id, excel_source, fye, generated_at, countries, created_at FROM snapshots ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var sn Snapshot
		if err := rows.Scan(&sn.ID, &sn.ExcelSource, &sn.FYE, &sn.GeneratedAt, &sn.Countries, &sn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}

// GetSnapshot returns one snapshot's metadata and document JSON by full id.
func (s *Store) GetSnapshot(id string) (*Snapshot, []byte, error) {
	var sn Snapshot
	var doc string
	err := s.db.QueryRow(
		"SELECT id, excel_source, fye, generated_at, countries, document, created_at FROM snapshots WHERE id = ?",
		id,
	).Scan(&sn.ID, &sn.ExcelSource, &sn.FYE, &sn.GeneratedAt, &sn.Countries, &doc, &sn.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &sn, []byte(doc), nil
}

// LatestDocument returns the most recent snapshot's document JSON, or
// sql.ErrNoRows when no run has been recorded.
func (s *Store) LatestDocument() ([]byte, error) {
	var doc string
	err := s.db.QueryRow(
		"SELECT document FROM snapshots ORDER BY created_at DESC, id LIMIT 1",
	).Scan(&doc)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}
