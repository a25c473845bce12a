package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

const passingScenario = `name: exit_ratio
description: "Exit ratio fixes stagnation temperature"
inputs:
  Ma_e: 5
  gamma: 1.3
  T_e: 1500
expect:
  derived:
    T_s: 7125
`

const failingScenario = `name: wrong_value
description: "Deliberately wrong expectation"
inputs:
  Ma_e: 5
  gamma: 1.3
  T_e: 1500
expect:
  derived:
    T_s: 7000
`

type scenarioResponse struct {
	Status string          `json:"status"`
	Data   ScenarioSummary `json:"data"`
	Error  *CLIError       `json:"error"`
}

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScenarioCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "scenario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestScenarioCommandNonExistentPath(t *testing.T) {
	_, _, err := execute(t, "scenario", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestScenarioCommand_HarnessScenariosPass(t *testing.T) {
	stdout, _, err := execute(t, "scenario", harnessScenarios, "--golden-dir", harnessGolden, "--format", "json")
	require.NoError(t, err, stdout)

	var resp scenarioResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Failed)
	assert.Equal(t, resp.Data.Total, resp.Data.Passed)
	assert.GreaterOrEqual(t, resp.Data.Total, 6)
}

func TestScenarioCommand_Filter(t *testing.T) {
	stdout, _, err := execute(t, "scenario", harnessScenarios, "--golden-dir", harnessGolden,
		"--filter", "stagnant_*", "--format", "json")
	require.NoError(t, err)

	var resp scenarioResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "stagnant_chamber", resp.Data.Scenarios[0].Name)
}

func TestScenarioCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	stdout, _, err := execute(t, "scenario", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ exit_ratio")
	assert.Contains(t, stdout, "✗ wrong_value")
	assert.Contains(t, stdout, "expected T_s = 7000")
	assert.Contains(t, stdout, "1 passed, 1 failed, 2 total")
}

func TestScenarioCommand_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "fail.yaml", failingScenario)

	stdout, _, err := execute(t, "scenario", dir, "--format", "json")
	require.Error(t, err)

	var resp scenarioResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenarioFailed, resp.Error.Code)
}

func TestScenarioCommand_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "exit_ratio.yaml", passingScenario)

	_, _, err := execute(t, "scenario", path, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "exit_ratio.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "exit_ratio"`)

	// The golden directory is not scanned as scenarios
	_, _, err = execute(t, "scenario", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	stdout, _, err := execute(t, "scenario", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestScenarioCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "bad.yaml", "name: bad\nunknown_field: 1\n")

	stdout, _, err := execute(t, "scenario", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ bad.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestScenarioCommand_EmptyDir(t *testing.T) {
	stdout, _, err := execute(t, "scenario", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found.")
}

func TestScenarioCommand_SiblingGoldenDir(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "testdata", "scenarios")
	golden := filepath.Join(root, "testdata", "golden")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	writeScenario(t, scenarios, "exit_ratio.yaml", passingScenario)

	_, _, err := execute(t, "scenario", scenarios, "--update")
	require.NoError(t, err)
	goldenPath := filepath.Join(golden, "exit_ratio.golden")
	require.FileExists(t, goldenPath)
	assert.NoDirExists(t, filepath.Join(scenarios, "golden"))

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	stdout, _, err := execute(t, "scenario", scenarios)
	require.Error(t, err)
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestScenarioCommand_HarnessLayoutWithoutGoldenDir(t *testing.T) {
	stdout, _, err := execute(t, "scenario", harnessScenarios, "--format", "json")
	require.NoError(t, err, stdout)

	var resp scenarioResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 0, resp.Data.Failed)
}

func TestGoldenFilePath(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		goldenDir string
		want      string
	}{
		{"explicit dir", "cases/a.yaml", "snapshots", filepath.Join("snapshots", "a_name.golden")},
		{"scenarios sibling", filepath.Join("testdata", "scenarios", "a.yaml"), "", filepath.Join("testdata", "golden", "a_name.golden")},
		{"subdirectory", filepath.Join("cases", "a.yaml"), "", filepath.Join("cases", "golden", "a_name.golden")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goldenFilePath(tt.file, "a_name", tt.goldenDir))
		})
	}
}
