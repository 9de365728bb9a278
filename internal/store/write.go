package store

import (
	"context"
	"fmt"

	"github.com/roach88/roster/internal/record"
)

// Insert adds a person row and returns the stored record with its new id.
// Names are normalized with record.NormalizeName before they are written,
// so the returned value matches what a later List reads back.
func (s *Store) Insert(ctx context.Context, firstName, lastName string) (record.Record, error) {
	r := record.New(0, firstName, lastName)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO people (first_name, last_name)
		VALUES (?, ?)
	`, r.FirstName, r.LastName)
	if err != nil {
		return record.Record{}, fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return record.Record{}, fmt.Errorf("insert record: last insert id: %w", err)
	}
	r.ID = id

	return r, nil
}

// Update overwrites the names of the row with r.ID.
//
// Returns ErrNotFound if no row has that id. If more than one row matched,
// the write is rolled back and ErrConsistency is returned.
func (s *Store) Update(ctx context.Context, r record.Record) error {
	r = r.Normalized()
	err := s.writeOne(ctx, "update record", `
		UPDATE people
		SET first_name = ?, last_name = ?
		WHERE id = ?
	`, r.FirstName, r.LastName, r.ID)
	if err != nil {
		return fmt.Errorf("update record %d: %w", r.ID, err)
	}
	return nil
}

// Delete removes the row with the given id.
//
// Returns ErrNotFound if no row has that id. If more than one row matched,
// the delete is rolled back and ErrConsistency is returned.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.writeOne(ctx, "delete record", `
		DELETE FROM people
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

// writeOne runs a statement that must affect exactly one row.
// It runs inside a transaction so a multi-row match never becomes visible.
func (s *Store) writeOne(ctx context.Context, op, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	switch {
	case n == 0:
		return ErrNotFound
	case n > 1:
		return fmt.Errorf("%w: %s affected %d rows", ErrConsistency, op, n)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

