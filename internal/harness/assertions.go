package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/roster/internal/record"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func evaluateAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertFinalSnapshot:
		return assertSnapshot(a.Type, a.Records, result.Final)
	case AssertPersisted:
		return assertSnapshot(a.Type, a.Records, result.Persisted)
	case AssertEmissionCount:
		return assertEmissionCount(a, result)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertSnapshot compares records field by field, in order.
// Names are normalized on the expected side the same way the store does.
func assertSnapshot(kind string, expected []record.Record, actual record.Snapshot) error {
	want := make(record.Snapshot, len(expected))
	for i, r := range expected {
		want[i] = r.Normalized()
	}

	if len(want) == len(actual) {
		match := true
		for i := range want {
			if want[i] != actual[i] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}

	return &AssertionError{
		Type:     kind,
		Expected: formatSnapshot(want),
		Actual:   formatSnapshot(actual),
	}
}

func assertEmissionCount(a Assertion, result *Result) error {
	got := result.Emissions()
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertEmissionCount,
		Expected: fmt.Sprintf("%d emissions", *a.Count),
		Actual:   fmt.Sprintf("%d emissions", got),
	}
}

func formatSnapshot(s record.Snapshot) string {
	if len(s) == 0 {
		return "[]"
	}
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
