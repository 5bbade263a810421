package store

import (
	"path/filepath"
	"testing"

	footfall "github.com/openvisual/go-footfall"
)

// TestStoreRecordAndTotals tests crossing events written to the database
// can be read back as aggregate totals
func TestStoreRecordAndTotals(t *testing.T) {

	dbPath := filepath.Join(t.TempDir(), "crossings.db")

	s, err := Open(dbPath)

	if err != nil {
		t.Fatalf("error opening store: %v", err)
	}

	defer s.Close()

	crossings := []*footfall.Crossing{
		{TrackID: 1, Direction: footfall.Entry, Entries: 1, Exits: 0},
		{TrackID: 2, Direction: footfall.Entry, Entries: 2, Exits: 0},
		{TrackID: 3, Direction: footfall.Exit, Entries: 2, Exits: 1},
	}

	for i, cross := range crossings {
		if err := s.RecordCrossing(i+1, cross); err != nil {
			t.Fatalf("error recording crossing: %v", err)
		}
	}

	entries, exits, err := s.Totals()

	if err != nil {
		t.Fatalf("error reading totals: %v", err)
	}

	if entries != 2 || exits != 1 {
		t.Errorf("expected totals (2, 1), got (%d, %d)", entries, exits)
	}
}

// TestStoreEmptyTotals tests totals on a fresh database are zero
func TestStoreEmptyTotals(t *testing.T) {

	dbPath := filepath.Join(t.TempDir(), "crossings.db")

	s, err := Open(dbPath)

	if err != nil {
		t.Fatalf("error opening store: %v", err)
	}

	defer s.Close()

	entries, exits, err := s.Totals()

	if err != nil {
		t.Fatalf("error reading totals: %v", err)
	}

	if entries != 0 || exits != 0 {
		t.Errorf("expected zero totals, got (%d, %d)", entries, exits)
	}
}

// TestStoreReopen tests recorded events survive closing and reopening the
// database file
func TestStoreReopen(t *testing.T) {

	dbPath := filepath.Join(t.TempDir(), "crossings.db")

	s, err := Open(dbPath)

	if err != nil {
		t.Fatalf("error opening store: %v", err)
	}

	cross := &footfall.Crossing{
		TrackID: 9, Direction: footfall.Entry, Entries: 1, Exits: 0,
	}

	if err := s.RecordCrossing(1, cross); err != nil {
		t.Fatalf("error recording crossing: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("error closing store: %v", err)
	}

	s, err = Open(dbPath)

	if err != nil {
		t.Fatalf("error reopening store: %v", err)
	}

	defer s.Close()

	entries, _, err := s.Totals()

	if err != nil {
		t.Fatalf("error reading totals: %v", err)
	}

	if entries != 1 {
		t.Errorf("expected 1 entry after reopen, got %d", entries)
	}
}
