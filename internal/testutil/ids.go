package testutil

import "fmt"

// SequentialIDGenerator returns "<prefix>-1", "<prefix>-2", ...
//
// It replaces UUIDv7 subscription ids in tests and golden traces so that
// output is byte-identical across runs.
// Safe for concurrent use.
type SequentialIDGenerator struct {
	prefix string
	seq    Counter
}

// NewSequentialIDGenerator creates a generator with the given prefix.
// If prefix is empty, "test" is used.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "test"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.seq.Next())
}

// Reset restarts numbering at 1.
func (g *SequentialIDGenerator) Reset() {
	g.seq.Reset()
}
