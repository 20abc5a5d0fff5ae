package storage

import (
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/orrery-sim/octree-nbody/internal/body"
)

const sqliteSchema = `
CREATE TABLE bodies (
	frame 	INTEGER,
	id 		INTEGER,
	x 		REAL,
	y 		REAL,
	z 		REAL,
	mass 	REAL,
	radius 	REAL);
`

const sqliteIndices = `
CREATE INDEX idx_frame ON bodies (frame, id);
CREATE INDEX idx_id ON bodies (id);
`

const sqliteInsert = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?);`

// SqliteStore writes one row per body per frame to a sqlite database,
// rounding floats to integers to keep the on-disk "real" columns
// compact. Sqlite only admits one writer at a time, so this sink should
// be driven by a single caller.
type SqliteStore struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewSqliteStore creates filename (it must not already exist) and
// prepares the bodies table and insert statement.
func NewSqliteStore(filename string) (*SqliteStore, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("storage: %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema: %w", err)
	}
	stmt, err := db.Prepare(sqliteInsert)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: prepare insert: %w", err)
	}
	return &SqliteStore{db: db, stmt: stmt}, nil
}

// WriteFrame inserts one row per body, wrapped in a single transaction.
func (s *SqliteStore) WriteFrame(frame int, bodies []*body.Body) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin frame transaction: %w", err)
	}
	txStmt := tx.Stmt(s.stmt)
	defer txStmt.Close()

	for _, b := range bodies {
		if _, err := txStmt.Exec(
			frame, b.ID,
			math.Round(b.Pos.X), math.Round(b.Pos.Y), math.Round(b.Pos.Z),
			math.Round(b.Mass), math.Round(b.Radius),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: insert body row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit frame transaction: %w", err)
	}
	return nil
}

// CreateIndices builds the query indices; callers run this once after
// the run finishes, since indices slow bulk inserts.
func (s *SqliteStore) CreateIndices() error {
	if _, err := s.db.Exec(sqliteIndices); err != nil {
		return fmt.Errorf("storage: create indices: %w", err)
	}
	return nil
}

// Close creates indices and closes the underlying database handle.
func (s *SqliteStore) Close() error {
	if err := s.CreateIndices(); err != nil {
		return err
	}
	if err := s.stmt.Close(); err != nil {
		return fmt.Errorf("storage: close statement: %w", err)
	}
	return s.db.Close()
}
