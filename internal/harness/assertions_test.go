package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/roster/internal/record"
)

func TestAssertSnapshot_Match(t *testing.T) {
	actual := record.Snapshot{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}
	err := assertSnapshot(AssertFinalSnapshot, []record.Record{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}, actual)
	assert.NoError(t, err)
}

func TestAssertSnapshot_NormalizesExpected(t *testing.T) {
	actual := record.Snapshot{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}
	err := assertSnapshot(AssertFinalSnapshot, []record.Record{{ID: 1, FirstName: " Ada ", LastName: "Lovelace"}}, actual)
	assert.NoError(t, err)
}

func TestAssertSnapshot_EmptyMatchesEmpty(t *testing.T) {
	assert.NoError(t, assertSnapshot(AssertPersisted, nil, record.Snapshot{}))
}

func TestAssertSnapshot_Mismatch(t *testing.T) {
	tests := []struct {
		name     string
		expected []record.Record
		actual   record.Snapshot
	}{
		{"different name", []record.Record{{ID: 1, FirstName: "Ada", LastName: "Byron"}}, record.Snapshot{{ID: 1, FirstName: "Ada", LastName: "Lovelace"}}},
		{"different length", nil, record.Snapshot{{ID: 1}}},
		{"different order", []record.Record{{ID: 2}, {ID: 1}}, record.Snapshot{{ID: 1}, {ID: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertSnapshot(AssertFinalSnapshot, tt.expected, tt.actual)
			require.Error(t, err)

			var ae *AssertionError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, AssertFinalSnapshot, ae.Type)
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "persisted", Expected: "[]", Actual: "[#1 Ada Lovelace]"}
	assert.Equal(t, "assertion failed: persisted\n  Expected: []\n  Actual: [#1 Ada Lovelace]", err.Error())
}

func TestAssertEmissionCount(t *testing.T) {
	result := NewResult()
	result.Trace = []TraceEvent{{Emitted: true}, {Emitted: false}, {Emitted: true}}

	assert.NoError(t, assertEmissionCount(Assertion{Type: AssertEmissionCount, Count: intPtr(2)}, result))
	assert.Error(t, assertEmissionCount(Assertion{Type: AssertEmissionCount, Count: intPtr(1)}, result))
}

func TestEvaluateAssertion_Unknown(t *testing.T) {
	err := evaluateAssertion(Assertion{Type: "bogus"}, NewResult())
	assert.Error(t, err)
}

func TestFormatSnapshot(t *testing.T) {
	assert.Equal(t, "[]", formatSnapshot(nil))
	assert.Equal(t, "[#1 Ada Lovelace, #2 Grace Hopper]", formatSnapshot(record.Snapshot{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace"},
		{ID: 2, FirstName: "Grace", LastName: "Hopper"},
	}))
}
