package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/roster/internal/record"
	"github.com/roach88/roster/internal/store"
)

// Scenario defines a scripted run against a RecordStore.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Driver selects the SQLite driver. Empty uses store.DefaultDriver.
	Driver string `yaml:"driver,omitempty"`

	// Steps are executed in order against a single store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one store operation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// ID identifies the record for update and delete.
	ID int64 `yaml:"id,omitempty"`

	FirstName string `yaml:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty"`

	// Expect is the expected boolean result. If nil, the result is not checked.
	Expect *bool `yaml:"expect,omitempty"`
}

// Record returns the record value carried by an update or delete step.
func (s Step) Record() record.Record {
	return record.Record{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName}
}

// Step operations.
const (
	OpOpen   = "open"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpClose  = "close"
)

var validOps = map[string]bool{
	OpOpen: true, OpCreate: true, OpUpdate: true, OpDelete: true, OpClose: true,
}

// Assertion validates final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_snapshot": the store's cache equals Records
	// - "persisted": the rows on disk equal Records
	// - "emission_count": exactly Count snapshots were published
	Type string `yaml:"type"`

	// Records is the expected id-ordered record list
	// (used by final_snapshot and persisted).
	Records []record.Record `yaml:"records,omitempty"`

	// Count is the expected number of emissions (used by emission_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalSnapshot = "final_snapshot"
	AssertPersisted     = "persisted"
	AssertEmissionCount = "emission_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Driver != "" && !store.ValidDriver(s.Driver) {
		return fmt.Errorf("driver %q is not supported", s.Driver)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if !validOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalSnapshot, AssertPersisted:
		// an absent records list means "empty"
	case AssertEmissionCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for emission_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}

	return nil
}
