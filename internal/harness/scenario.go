package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one input document and the
// outcome expected from solving and checking it.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Library selects relation library variants.
	Library LibraryOptions `yaml:"library,omitempty"`

	// Inputs is the input document, decoded like any CLI input file.
	Inputs map[string]interface{} `yaml:"inputs"`

	// Tolerance is the relative tolerance for derived values.
	// Zero selects DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Expect specifies the expected outcome.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the resolution trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// LibraryOptions mirrors relation library options.
type LibraryOptions struct {
	StagnantChamber bool `yaml:"stagnant_chamber,omitempty"`
}

// ExpectClause specifies the expected solve and check results.
type ExpectClause struct {
	// Error is the expected error kind. When set, no other field applies.
	Error string `yaml:"error,omitempty"`

	// Derived is a subset match on solved values.
	Derived map[string]float64 `yaml:"derived,omitempty"`

	// Absent lists symbols that must not be derived.
	Absent []string `yaml:"absent,omitempty"`

	// Derivable and Redundant are exact matches on the dry-run sets.
	// Nil skips the comparison; an empty list expects an empty set.
	Derivable []string `yaml:"derivable,omitempty"`
	Redundant []string `yaml:"redundant,omitempty"`
}

// Assertion validates the resolution trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "resolution_order": Check symbols were resolved in order
	// - "resolved_by": Check Symbol was resolved by Relation
	// - "pass_count": Check the number of passes
	// - "fixed_point": Check whether propagation converged
	Type string `yaml:"type"`

	// Symbols is the expected resolution order (used by resolution_order).
	Symbols []string `yaml:"symbols,omitempty"`

	// Symbol and Relation are used by resolved_by.
	Symbol   string `yaml:"symbol,omitempty"`
	Relation string `yaml:"relation,omitempty"`

	// Count is the expected number of passes (used by pass_count).
	Count int `yaml:"count,omitempty"`

	// Reached is the expected convergence (used by fixed_point).
	Reached *bool `yaml:"reached,omitempty"`
}

// Assertion type constants.
const (
	AssertResolutionOrder = "resolution_order"
	AssertResolvedBy      = "resolved_by"
	AssertPassCount       = "pass_count"
	AssertFixedPoint      = "fixed_point"
)

// Expected error kinds.
const (
	ErrorInvalidArgument = "invalid_argument"
)

// DefaultTolerance is the relative tolerance for derived values.
const DefaultTolerance = 1e-6

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

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
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

	if s.Inputs == nil {
		return fmt.Errorf("inputs is required (use {} for no inputs)")
	}

	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil && s.Expect.Error != "" {
		if s.Expect.Error != ErrorInvalidArgument {
			return fmt.Errorf("expect.error: unknown error kind %q", s.Expect.Error)
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions cannot be combined with expect.error")
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
	case AssertResolutionOrder:
		if len(a.Symbols) == 0 {
			return fmt.Errorf("assertions[%d]: symbols list is required for resolution_order", index)
		}
	case AssertResolvedBy:
		if a.Symbol == "" || a.Relation == "" {
			return fmt.Errorf("assertions[%d]: symbol and relation are required for resolved_by", index)
		}
	case AssertPassCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for pass_count", index)
		}
	case AssertFixedPoint:
		if a.Reached == nil {
			return fmt.Errorf("assertions[%d]: reached is required for fixed_point", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
