package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_OrdersByIDOnly(t *testing.T) {
	a := Record{ID: 1, FirstName: "Zed", LastName: "Zulu"}
	b := Record{ID: 2, FirstName: "Ada", LastName: "Alpha"}

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, Record{ID: 1, FirstName: "Other"}))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Ada", "Ada"},
		{"trimmed", "  Ada\t", "Ada"},
		{"empty", "", ""},
		{"decomposed to composed", "Jose\u0301", "Jos\u00e9"},
		{"already composed", "Jos\u00e9", "Jos\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestWithNames_KeepsID(t *testing.T) {
	r := New(3, "Ada", "Lovelace")
	u := r.WithNames("Ada", " Byron ")

	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Byron", u.LastName)
	assert.Equal(t, "Lovelace", r.LastName, "original must not change")
}

func TestPersisted(t *testing.T) {
	assert.False(t, Record{}.Persisted())
	assert.False(t, Record{ID: -1}.Persisted())
	assert.True(t, Record{ID: 1}.Persisted())
}

func TestSnapshot_SortedDoesNotMutate(t *testing.T) {
	s := Snapshot{{ID: 3}, {ID: 1}, {ID: 2}}

	sorted := s.Sorted()

	assert.Equal(t, Snapshot{{ID: 1}, {ID: 2}, {ID: 3}}, sorted)
	assert.Equal(t, Snapshot{{ID: 3}, {ID: 1}, {ID: 2}}, s)
}

func TestSnapshot_SortedNil(t *testing.T) {
	var s Snapshot
	sorted := s.Sorted()
	require.NotNil(t, sorted)
	assert.Empty(t, sorted)
}

func TestSnapshot_Dedup(t *testing.T) {
	s := Snapshot{
		{ID: 1, FirstName: "first"},
		{ID: 2},
		{ID: 1, FirstName: "second"},
	}

	out := s.Dedup()

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].FirstName)
	assert.Equal(t, int64(2), out[1].ID)
}

func TestSnapshot_Replace(t *testing.T) {
	s := Snapshot{{ID: 1, LastName: "Lovelace"}, {ID: 2}}

	out, ok := s.Replace(Record{ID: 1, LastName: "Byron"})
	require.True(t, ok)
	assert.Equal(t, "Byron", out[0].LastName)
	assert.Equal(t, "Lovelace", s[0].LastName, "replace must copy")

	_, ok = s.Replace(Record{ID: 99})
	assert.False(t, ok)
}

func TestSnapshot_Remove(t *testing.T) {
	s := Snapshot{{ID: 1}, {ID: 2}, {ID: 3}}

	out, ok := s.Remove(2)
	require.True(t, ok)
	assert.Equal(t, Snapshot{{ID: 1}, {ID: 3}}, out)
	assert.Len(t, s, 3)

	_, ok = s.Remove(42)
	assert.False(t, ok)
}

func TestSnapshot_FindAndMaxID(t *testing.T) {
	s := Snapshot{{ID: 4, FirstName: "Grace"}, {ID: 9}}

	r, ok := s.Find(4)
	require.True(t, ok)
	assert.Equal(t, "Grace", r.FirstName)

	_, ok = s.Find(5)
	assert.False(t, ok)

	assert.Equal(t, int64(9), s.MaxID())
	assert.Equal(t, int64(0), Snapshot{}.MaxID())
}
