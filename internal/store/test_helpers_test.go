package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/roster/internal/record"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createTestStoreWithDriver(t, DefaultDriver)
}

func createTestStoreWithDriver(t *testing.T, driver string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(driver, path)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustInsert inserts a record and fails the test on error.
func mustInsert(t *testing.T, s *Store, first, last string) record.Record {
	t.Helper()
	r, err := s.Insert(context.Background(), first, last)
	if err != nil {
		t.Fatalf("Insert(%q, %q) failed: %v", first, last, err)
	}
	return r
}

var allDrivers = []string{DriverCGO, DriverPureGo}

// get reads one row back, or returns ErrNotFound.
func (s *Store) get(ctx context.Context, id int64) (record.Record, error) {
	var r record.Record
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name
		FROM people
		WHERE id = ?
	`, id).Scan(&r.ID, &r.FirstName, &r.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, fmt.Errorf("get record %d: %w", id, ErrNotFound)
	}
	return r, err
}

// count returns the number of rows in people.
func (s *Store) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n)
	return n, err
}
