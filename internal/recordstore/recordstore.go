package recordstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/roster/internal/config"
	"github.com/roach88/roster/internal/notify"
	"github.com/roach88/roster/internal/record"
	"github.com/roach88/roster/internal/store"
)

// Operation names used in logs and metrics.
const (
	OpOpen   = "open"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpClose  = "close"
)

// RecordStore owns one database connection, the cache of records and the
// hub that publishes snapshots of it.
//
// Callers are expected not to overlap mutating calls. If they do, writes are
// serialized by the single SQLite connection and cache updates apply in
// completion order.
type RecordStore struct {
	name   string
	dir    string
	driver string
	logger *slog.Logger

	hub     *notify.Hub[record.Snapshot]
	metrics *metrics

	mu    sync.Mutex
	conn  *store.Store
	cache record.Snapshot
}

// Option configures a RecordStore.
type Option func(*options)

type options struct {
	dir        string
	driver     string
	logger     *slog.Logger
	registerer prometheus.Registerer
	ids        notify.IDGenerator
}

// WithDir sets the directory holding the database file.
// Default: config.DefaultDataDir().
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithDriver selects the SQLite driver (store.DriverCGO or store.DriverPureGo).
func WithDriver(driver string) Option {
	return func(o *options) { o.driver = driver }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer registers the store's metrics on reg.
// Default: a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSubscriptionIDs overrides the id generator used for All subscriptions.
func WithSubscriptionIDs(gen notify.IDGenerator) Option {
	return func(o *options) { o.ids = gen }
}

// New creates a store for the database file name. No connection is made
// until Open.
//
// A name that contains a path separator, or the special name ":memory:",
// is passed to the driver unchanged and the directory is not used.
func New(name string, opts ...Option) *RecordStore {
	o := options{
		driver: store.DefaultDriver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}

	hubOpts := []notify.Option[record.Snapshot]{
		notify.WithPrepare(record.Snapshot.Sorted),
		notify.WithLogger[record.Snapshot](o.logger),
	}
	if o.ids != nil {
		hubOpts = append(hubOpts, notify.WithIDGenerator[record.Snapshot](o.ids))
	}

	return &RecordStore{
		name:    name,
		dir:     o.dir,
		driver:  o.driver,
		logger:  o.logger.With("store", name),
		hub:     notify.NewHub(hubOpts...),
		metrics: newMetrics(o.registerer),
	}
}

// Open connects to the database, ensures the table exists, loads every
// record into the cache and publishes it. Calling Open on an open store
// returns true and does nothing else.
func (s *RecordStore) Open(ctx context.Context) bool {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return true
	}

	ok := s.open(ctx)
	s.metrics.observe(OpOpen, ok)
	return ok
}

// open must be called with s.mu held.
func (s *RecordStore) open(ctx context.Context) bool {
	path, err := s.resolvePath()
	if err != nil {
		s.logger.Error("resolve database path failed", "op", OpOpen, "error", err)
		return false
	}

	conn, err := store.Open(s.driver, path)
	if err != nil {
		s.logger.Error("open database failed", "op", OpOpen, "path", path, "error", err)
		return false
	}

	loaded, err := conn.List(ctx)
	if err != nil {
		s.logger.Error("load records failed", "op", OpOpen, "path", path, "error", err)
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Error("error closing database", "error", closeErr)
		}
		return false
	}

	s.conn = conn
	s.cache = loaded.Sorted().Dedup()
	s.publish()
	s.logger.Info("store opened", "path", path, "driver", s.driver, "records", len(s.cache))
	return true
}

// resolvePath returns the database path, creating the private data
// directory when needed.
func (s *RecordStore) resolvePath() (string, error) {
	if s.name == "" {
		return "", fmt.Errorf("database name is empty")
	}
	if s.name == ":memory:" || strings.ContainsRune(s.name, filepath.Separator) {
		return s.name, nil
	}

	dir := s.dir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDataDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dir, s.name), nil
}

// Create inserts a new record. On success the record, with its
// storage-issued id, is appended to the cache and a snapshot is published.
func (s *RecordStore) Create(ctx context.Context, firstName, lastName string) bool {
	ctx = context.WithoutCancel(ctx)

	conn := s.connection(OpCreate)
	if conn == nil {
		return false
	}

	r, err := conn.Insert(ctx, firstName, lastName)
	if err != nil {
		s.logger.Warn("create failed", "op", OpCreate, "error", err)
		s.metrics.observe(OpCreate, false)
		return false
	}

	s.applyCreated(r)

	s.logger.Debug("record created", "op", OpCreate, "id", r.ID)
	s.metrics.observe(OpCreate, true)
	return true
}

// applyCreated adds a freshly inserted record to the cache and publishes.
// A record already present, loaded by an Open that ran after the insert
// committed, is not added twice.
func (s *RecordStore) applyCreated(r record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.Index(r.ID) < 0 {
		s.cache = append(s.cache.Clone(), r)
	}
	s.publish()
}

// Update replaces the names of the record with r.ID. It returns false,
// leaving the cache unchanged, if r has no storage-issued id or no row
// matched.
func (s *RecordStore) Update(ctx context.Context, r record.Record) bool {
	ctx = context.WithoutCancel(ctx)

	conn := s.connection(OpUpdate)
	if conn == nil {
		return false
	}
	if !r.Persisted() {
		s.logger.Warn("update rejected: record has no id", "op", OpUpdate)
		s.metrics.observe(OpUpdate, false)
		return false
	}

	r = r.Normalized()
	if err := conn.Update(ctx, r); err != nil {
		s.logger.Warn("update failed", "op", OpUpdate, "id", r.ID, "error", err)
		s.metrics.observe(OpUpdate, false)
		return false
	}

	s.mu.Lock()
	next, ok := s.cache.Replace(r)
	if !ok {
		next = append(s.cache.Clone(), r).Sorted()
	}
	s.cache = next
	s.publish()
	s.mu.Unlock()

	s.logger.Debug("record updated", "op", OpUpdate, "id", r.ID)
	s.metrics.observe(OpUpdate, true)
	return true
}

// Delete removes the record with r.ID. Only the id is consulted. It
// returns false, leaving the cache unchanged, if no row matched.
func (s *RecordStore) Delete(ctx context.Context, r record.Record) bool {
	ctx = context.WithoutCancel(ctx)

	conn := s.connection(OpDelete)
	if conn == nil {
		return false
	}

	if err := conn.Delete(ctx, r.ID); err != nil {
		s.logger.Warn("delete failed", "op", OpDelete, "id", r.ID, "error", err)
		s.metrics.observe(OpDelete, false)
		return false
	}

	s.mu.Lock()
	s.cache, _ = s.cache.Remove(r.ID)
	s.publish()
	s.mu.Unlock()

	s.logger.Debug("record deleted", "op", OpDelete, "id", r.ID)
	s.metrics.observe(OpDelete, true)
	return true
}

// Close releases the connection. It returns false if the store is not
// open. The cache is kept, stale, until the next Open.
func (s *RecordStore) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		s.logger.Warn("close rejected: store not open", "op", OpClose)
		s.metrics.observe(OpClose, false)
		return false
	}

	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		s.logger.Error("error closing database", "op", OpClose, "error", err)
		s.metrics.observe(OpClose, false)
		return false
	}

	st := s.hub.Stats()
	s.logger.Info("store closed", "subscribers", st.Subscribers, "published", st.Published)
	s.metrics.observe(OpClose, true)
	return true
}

// All returns a live subscription to cache snapshots, each sorted by id.
// The first delivery is the most recent snapshot, if any has been
// published, followed by every later snapshot in order. The subscription
// stays open until Unsubscribe is called.
func (s *RecordStore) All() *notify.Subscription[record.Snapshot] {
	return s.hub.Subscribe()
}

// Snapshot returns an id-sorted copy of the cache.
func (s *RecordStore) Snapshot() record.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Sorted()
}

// IsOpen reports whether the store currently holds a connection.
func (s *RecordStore) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Name returns the database name the store was created with.
func (s *RecordStore) Name() string {
	return s.name
}

// connection returns the open connection, or nil after logging and
// counting a failed op.
func (s *RecordStore) connection(op string) *store.Store {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		s.logger.Warn("store not open", "op", op)
		s.metrics.observe(op, false)
	}
	return conn
}

// publish sends the cache to subscribers. Must be called with s.mu held.
func (s *RecordStore) publish() {
	s.metrics.records.Set(float64(len(s.cache)))
	s.hub.Publish(s.cache.Clone())
}
