// Package store persists line crossing events to a sqlite database so
// counting sessions can be audited after the run.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	footfall "github.com/openvisual/go-footfall"
)

// Store writes crossing events to a sqlite database file
type Store struct {
	db *sql.DB
}

// Open opens the sqlite database at the given path, creating the file and
// the crossings table when they do not exist yet
func Open(path string) (*Store, error) {

	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS crossings (
			crossing_id INTEGER PRIMARY KEY AUTOINCREMENT,
			frame INTEGER,
			track_id INTEGER,
			direction TEXT,
			entries INTEGER,
			exits INTEGER,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating crossings table: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordCrossing inserts a single crossing event along with the frame number
// it occurred on and the running totals at that point
func (s *Store) RecordCrossing(frame int, cross *footfall.Crossing) error {

	_, err := s.db.Exec(
		`INSERT INTO crossings (frame, track_id, direction, entries, exits)
			VALUES (?, ?, ?, ?, ?)`,
		frame, cross.TrackID, cross.Direction.String(),
		cross.Entries, cross.Exits,
	)

	if err != nil {
		return fmt.Errorf("error recording crossing: %w", err)
	}

	return nil
}

// Totals reads back the aggregate number of entry and exit events recorded
func (s *Store) Totals() (entries, exits int, err error) {

	row := s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN direction = 'ENTRY' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN direction = 'EXIT' THEN 1 ELSE 0 END), 0)
		FROM crossings
	`)

	if err := row.Scan(&entries, &exits); err != nil {
		return 0, 0, fmt.Errorf("error reading totals: %w", err)
	}

	return entries, exits, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
