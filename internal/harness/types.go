package harness

import "github.com/roach88/roster/internal/record"

// TraceEvent records the outcome of one step.
type TraceEvent struct {
	Step     int             `json:"step"` // 1-based
	Op       string          `json:"op"`
	OK       bool            `json:"ok"`
	Emitted  bool            `json:"emitted"`
	Snapshot record.Snapshot `json:"snapshot,omitempty"` // set only when Emitted
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect matched and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the store's cache after the last step.
	Final record.Snapshot `json:"final"`

	// Persisted is the table contents read back from disk after the last step.
	Persisted record.Snapshot `json:"persisted"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Emissions returns how many steps published a snapshot.
func (r *Result) Emissions() int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Emitted {
			n++
		}
	}
	return n
}
