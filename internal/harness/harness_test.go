package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exitScenario() *Scenario {
	return &Scenario{
		Name:        "exit",
		Description: "exit temperature ratio",
		Inputs: map[string]interface{}{
			"Ma_e":  5,
			"gamma": 1.3,
			"T_e":   1500.0,
		},
		Expect: &ExpectClause{
			Derived: map[string]float64{"T_s": 7125},
		},
	}
}

func TestRun_Pass(t *testing.T) {
	result, err := Run(exitScenario())
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.InDelta(t, 7125, result.Derived["T_s"], 1e-6)
	assert.Equal(t, []string{"T_s", "T_t"}, result.Derivable)
	assert.Equal(t, 3, result.Passes)
	assert.True(t, result.FixedPoint)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "temperature-ratio@exit", result.Trace[0].Relation)
}

func TestRun_WrongValue(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect.Derived["T_s"] = 7000

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected T_s = 7000, got 712")
}

func TestRun_ToleranceWidensMatch(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect.Derived["T_s"] = 7100
	scenario.Tolerance = 0.01

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_NotDerived(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect.Derived["P_e"] = 1

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "P_e = 1, not derived")
}

func TestRun_AbsentViolated(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect.Absent = []string{"T_t"}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected T_t not derived")
}

func TestRun_SetMismatch(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect.Derivable = []string{"T_s"}
	scenario.Expect.Redundant = []string{}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "derivable: expected [T_s], got [T_s T_t]")
	assert.Contains(t, result.Errors[1], "redundant: expected [], got [T_s T_t]")
}

func TestRun_ExpectedInvalidArgument(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad",
		Description: "bad value",
		Inputs:      map[string]interface{}{"Ma_e": "fast"},
		Expect:      &ExpectClause{Error: ErrorInvalidArgument},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, ErrorInvalidArgument, result.Err)
}

func TestRun_UnexpectedInvalidArgument(t *testing.T) {
	scenario := exitScenario()
	scenario.Inputs["gamma"] = "steep"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	scenario := exitScenario()
	scenario.Expect = &ExpectClause{Error: ErrorInvalidArgument}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected error invalid_argument, got success")
}

func TestRun_StagnantChamberLibrary(t *testing.T) {
	scenario := &Scenario{
		Name:        "plenum",
		Description: "chamber at rest",
		Library:     LibraryOptions{StagnantChamber: true},
		Inputs:      map[string]interface{}{"T_c": 3000},
		Expect: &ExpectClause{
			Derived: map[string]float64{"T_s": 3000},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}
