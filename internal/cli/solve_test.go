package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solveResponse struct {
	Status  string      `json:"status"`
	Data    SolveOutput `json:"data"`
	Error   *CLIError   `json:"error"`
	TraceID string      `json:"trace_id"`
}

func decodeSolve(t *testing.T, stdout string) solveResponse {
	t.Helper()
	var resp solveResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	return resp
}

func TestSolve_Assignments(t *testing.T) {
	stdout, _, err := execute(t, "solve", "--format", "json", "Ma_e=5", "gamma=1.3", "T_e=1500")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.InDelta(t, 7125, resp.Data.Derived["T_s"], 1e-3)
	assert.InDelta(t, 7125/1.15, resp.Data.Derived["T_t"], 1e-3)
	assert.Len(t, resp.Data.Derived, 2)
	assert.Equal(t, 3, resp.Data.Passes)
	assert.True(t, resp.Data.FixedPoint)
	assert.Nil(t, resp.Data.Isp)
}

func TestSolve_TextOutput(t *testing.T) {
	stdout, _, err := execute(t, "solve", "Ma_e=5", "gamma=1.3", "T_e=1500")
	require.NoError(t, err)

	assert.Contains(t, stdout, "T_s")
	assert.Contains(t, stdout, "Temperature @ Stagnation")
	assert.Contains(t, stdout, "T_t")
	assert.NotContains(t, stdout, "Warning")
}

func TestSolve_NothingDerived(t *testing.T) {
	stdout, _, err := execute(t, "solve", "gamma=1.4")
	require.NoError(t, err)
	assert.Equal(t, "No new values derived.\n", stdout)
}

func TestSolve_SpecificImpulse(t *testing.T) {
	stdout, _, err := execute(t, "solve", "--format", "json", "F=1000", "mdot=1")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	require.NotNil(t, resp.Data.Isp)
	assert.InDelta(t, 101.97162129779283, *resp.Data.Isp, 1e-9)
}

func TestSolve_VerboseTrace(t *testing.T) {
	stdout, stderr, err := execute(t, "solve", "-v", "--format", "json", "Ma_e=5", "gamma=1.3", "T_e=1500")
	require.NoError(t, err)

	decodeSolve(t, stdout)
	assert.Contains(t, stderr, "[pass 1] temperature-ratio@exit -> T_s")
	assert.Contains(t, stderr, "[pass 2] temperature-ratio@throat -> T_t")
	assert.Contains(t, stderr, "msg=resolved")
}

func TestSolve_InputFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "in.yaml", "Ma_e: 5\ngamma: 1.3\nT_e: 1500\nT_c: null\n"},
		{"yml", "in.yml", "Ma_e: 5\ngamma: 1.3\nT_e: 1500\n"},
		{"json", "in.json", `{"Ma_e": 5, "gamma": 1.3, "T_e": 1500, "T_c": null}`},
		{"cue", "in.cue", "Ma_e:  5\ngamma: 1.3\nT_e:   1500\nT_c:   null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			stdout, _, err := execute(t, "solve", "--format", "json", "-f", path)
			require.NoError(t, err)

			resp := decodeSolve(t, stdout)
			assert.InDelta(t, 7125, resp.Data.Derived["T_s"], 1e-3)
			assert.NotContains(t, resp.Data.Derived, "T_c")
		})
	}
}

func TestSolve_Stdin(t *testing.T) {
	stdout, _, err := executeWithInput(t, "Ma_e: 5\ngamma: 1.3\nT_e: 1500\n",
		"solve", "--format", "json", "-f", "-")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.InDelta(t, 7125, resp.Data.Derived["T_s"], 1e-3)
}

func TestSolve_ArgumentsOverrideFile(t *testing.T) {
	path := writeFile(t, "in.yaml", "Ma_e: 5\ngamma: 1.3\nT_e: 1000\n")

	stdout, _, err := execute(t, "solve", "--format", "json", "-f", path, "T_e=1500")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.InDelta(t, 7125, resp.Data.Derived["T_s"], 1e-3)
}

func TestSolve_Errors(t *testing.T) {
	unsupported := writeFile(t, "in.toml", "Ma_e = 5\n")
	notMapping := writeFile(t, "in.yaml", "- 1\n- 2\n")
	broken := writeFile(t, "in.json", "{")

	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"not a number", []string{"T_s=abc"}, ErrCodeInvalidArgument, ExitFailure},
		{"missing equals", []string{"T_s"}, ErrCodeInvalidArgument, ExitFailure},
		{"not a mapping", []string{"-f", notMapping}, ErrCodeInvalidArgument, ExitFailure},
		{"missing file", []string{"-f", "/nonexistent/in.yaml"}, ErrCodeNotFound, ExitCommandError},
		{"unsupported type", []string{"-f", unsupported}, ErrCodeUnsupported, ExitCommandError},
		{"malformed file", []string{"-f", broken}, ErrCodeDecodeFailed, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"solve", "--format", "json"}, tt.args...)
			stdout, _, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			resp := decodeSolve(t, stdout)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestSolve_StagnantChamberFlag(t *testing.T) {
	stdout, _, err := execute(t, "solve", "--format", "json", "--stagnant-chamber", "T_c=3000")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.InDelta(t, 3000, resp.Data.Derived["T_s"], 1e-6)
}
