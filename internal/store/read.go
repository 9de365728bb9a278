package store

import (
	"context"
	"fmt"

	"github.com/roach88/roster/internal/record"
)

// List returns every stored record ordered by id.
// An empty table yields an empty, non-nil snapshot.
func (s *Store) List(ctx context.Context) (record.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name
		FROM people
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := record.Snapshot{}
	for rows.Next() {
		var r record.Record
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName); err != nil {
			return nil, fmt.Errorf("list records: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return out, nil
}
