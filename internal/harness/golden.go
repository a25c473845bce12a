package harness

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the deterministic parts of a scenario execution.
type Snapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Error        string       `json:"error,omitempty"`
	Passes       int          `json:"passes"`
	FixedPoint   bool         `json:"fixed_point"`
	Trace        []GoldenStep `json:"trace"`
	Derivable    []string     `json:"derivable"`
	Redundant    []string     `json:"redundant"`
}

// GoldenStep is a TraceEvent with its value rounded to six significant
// digits.
type GoldenStep struct {
	Pass     int    `json:"pass"`
	Relation string `json:"relation"`
	Symbol   string `json:"symbol"`
	Value    string `json:"value"`
}

// NewSnapshot builds the golden snapshot of result.
func NewSnapshot(name string, result *Result) *Snapshot {
	s := &Snapshot{
		ScenarioName: name,
		Error:        result.Err,
		Passes:       result.Passes,
		FixedPoint:   result.FixedPoint,
		Trace:        make([]GoldenStep, len(result.Trace)),
		Derivable:    append([]string{}, result.Derivable...),
		Redundant:    append([]string{}, result.Redundant...),
	}
	for i, event := range result.Trace {
		s.Trace[i] = GoldenStep{
			Pass:     event.Pass,
			Relation: event.Relation,
			Symbol:   event.Symbol,
			Value:    strconv.FormatFloat(event.Value, 'g', 6, 64),
		}
	}
	return s
}

// Marshal renders the snapshot as indented JSON with a trailing newline.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
