package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/roster/internal/record"
	"github.com/roach88/roster/internal/recordstore"
)

// openStore builds a RecordStore from the resolved settings and opens it.
// The caller must Close the returned store.
func openStore(ctx context.Context, opts *RootOptions, f *OutputFormatter) (*recordstore.RecordStore, error) {
	cfg := opts.settings()
	rs := newStore(opts)

	f.VerboseLog("opening %s (driver %s)", cfg.Database, cfg.Driver)
	if !rs.Open(ctx) {
		return nil, f.Fail(ExitCommandError, ErrCodeOpenFailed,
			fmt.Sprintf("failed to open database %q", cfg.Database))
	}
	return rs, nil
}

// newStore builds an unopened RecordStore from the resolved settings.
func newStore(opts *RootOptions) *recordstore.RecordStore {
	cfg := opts.settings()
	return recordstore.New(cfg.Database,
		recordstore.WithDir(cfg.DataDir),
		recordstore.WithDriver(cfg.Driver),
		recordstore.WithLogger(opts.logger()),
	)
}

// closeStore closes rs, logging rather than failing when it was already
// closed.
func closeStore(opts *RootOptions, rs *recordstore.RecordStore) {
	if rs.IsOpen() && !rs.Close() {
		opts.logger().Warn("store did not close cleanly", "store", rs.Name())
	}
}

// parseID parses a record id argument. Ids issued by storage are positive.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", arg)
	}
	return id, nil
}

// renamed returns the cached record with id carrying new names, or a bare
// record with that id if the cache does not hold it.
func renamed(rs *recordstore.RecordStore, id int64, firstName, lastName string) record.Record {
	r, ok := rs.Snapshot().Find(id)
	if !ok {
		r = record.Record{ID: id}
	}
	return r.WithNames(firstName, lastName)
}
