package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/roster/internal/notify"
	"github.com/roach88/roster/internal/record"
	"github.com/roach88/roster/internal/recordstore"
	"github.com/roach88/roster/internal/store"
	"github.com/roach88/roster/internal/testutil"
)

const scenarioDatabase = "scenario.db"

// Harness executes one scenario against one store.
type Harness struct {
	store  *recordstore.RecordStore
	sub    *notify.Subscription[record.Snapshot]
	dir    string
	driver string
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh database in a new temporary directory
// which is removed afterwards.
//
// Execution flow:
//  1. Create the store (unopened) and subscribe to it
//  2. Execute steps, recording result and any published snapshot
//  3. Read the table back from disk
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with store logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	dir, err := os.MkdirTemp("", "roster-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	driver := scenario.Driver
	if driver == "" {
		driver = store.DefaultDriver
	}

	rs := recordstore.New(scenarioDatabase,
		recordstore.WithDir(dir),
		recordstore.WithDriver(driver),
		recordstore.WithLogger(logger),
		recordstore.WithSubscriptionIDs(testutil.NewSequentialIDGenerator("scenario")),
	)

	h := &Harness{
		store:  rs,
		sub:    rs.All(),
		dir:    dir,
		driver: driver,
		logger: logger,
	}
	defer h.sub.Unsubscribe()
	defer func() {
		if rs.IsOpen() {
			rs.Close()
		}
	}()

	ctx := context.Background()
	result := NewResult()

	h.executeSteps(ctx, scenario.Steps, result)

	result.Final = rs.Snapshot()
	persisted, err := h.readPersisted(ctx)
	if err != nil {
		return nil, err
	}
	result.Persisted = persisted

	for i, assertion := range scenario.Assertions {
		if err := evaluateAssertion(assertion, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// executeSteps runs each step and records it in the trace. Publishing is
// synchronous, so a snapshot produced by a step is already queued on the
// subscription when the step returns.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		ok := h.execute(ctx, step)

		ev := TraceEvent{Step: i + 1, Op: step.Op, OK: ok}
		if snap, got := h.sub.TryNext(); got {
			ev.Emitted = true
			ev.Snapshot = snap
		}
		result.Trace = append(result.Trace, ev)

		if step.Expect != nil && *step.Expect != ok {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %v, got %v", i, step.Op, *step.Expect, ok))
		}
	}
}

func (h *Harness) execute(ctx context.Context, step Step) bool {
	switch step.Op {
	case OpOpen:
		return h.store.Open(ctx)
	case OpCreate:
		return h.store.Create(ctx, step.FirstName, step.LastName)
	case OpUpdate:
		return h.store.Update(ctx, step.Record())
	case OpDelete:
		return h.store.Delete(ctx, step.Record())
	case OpClose:
		return h.store.Close()
	default:
		h.logger.Error("unknown op", "op", step.Op)
		return false
	}
}

// readPersisted opens a second connection to the scenario database and
// lists its rows. A scenario that never opened the store has no rows.
func (h *Harness) readPersisted(ctx context.Context) (record.Snapshot, error) {
	path := filepath.Join(h.dir, scenarioDatabase)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return record.Snapshot{}, nil
	}

	st, err := store.Open(h.driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen scenario database: %w", err)
	}
	defer st.Close()

	return st.List(ctx)
}
