package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BCalow/engine-initial-variables/internal/rootfind"
	"github.com/BCalow/engine-initial-variables/internal/traceid"
)

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand(&RootOptions{TraceIDs: traceid.NewFixedGenerator("trace-1")})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "nozzle", cmd.Use)
	assert.Contains(t, cmd.Long, "nozzle relations")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"solve", "check", "relations", "scenario", "serve"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	passesFlag := cmd.PersistentFlags().Lookup("max-passes")
	require.NotNil(t, passesFlag)
	assert.Equal(t, "50", passesFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("stagnant-chamber"))
}

func TestInputFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"solve", "check"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)

		fileFlag := sub.Flags().Lookup("file")
		require.NotNil(t, fileFlag, name)
		assert.Equal(t, "f", fileFlag.Shorthand)
	}
}

func TestScenarioCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sub, _, err := cmd.Find([]string{"scenario"})
	require.NoError(t, err)

	for _, name := range []string{"update", "filter", "golden-dir"} {
		assert.NotNil(t, sub.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "relations", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestConfigFileApplied(t *testing.T) {
	cfg := writeFile(t, "nozzle.ini", "[engine]\nmax_passes = 1\n")

	stdout, _, err := execute(t, "solve", "--config", cfg, "--format", "json",
		"Ma_e=5", "gamma=1.3", "T_e=1500")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.False(t, resp.Data.FixedPoint)
	assert.Equal(t, 1, resp.Data.Passes)
	assert.NotContains(t, resp.Data.Derived, "T_t")
}

func TestFlagOverridesConfig(t *testing.T) {
	cfg := writeFile(t, "nozzle.ini", "[engine]\nmax_passes = 1\n")

	stdout, _, err := execute(t, "solve", "--config", cfg, "--max-passes", "10", "--format", "json",
		"Ma_e=5", "gamma=1.3", "T_e=1500")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.True(t, resp.Data.FixedPoint)
	assert.Contains(t, resp.Data.Derived, "T_t")
}

func TestBadConfigIsCommandError(t *testing.T) {
	cfg := writeFile(t, "nozzle.ini", "[engine]\nmax_passes = zero\n")

	stdout, _, err := execute(t, "relations", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E006]")
}

func TestMaxPassesFlagRejectsZero(t *testing.T) {
	_, _, err := execute(t, "relations", "--max-passes", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigConstantsReachLibrary(t *testing.T) {
	cfg := writeFile(t, "nozzle.ini", "[constants]\ngamma = 1.4\n")

	stdout, _, err := execute(t, "solve", "--config", cfg, "--format", "json", "T_s=3000")
	require.NoError(t, err)

	resp := decodeSolve(t, stdout)
	assert.InDelta(t, 2500, resp.Data.Derived["T_t"], 1e-6)
	assert.NotContains(t, resp.Data.Derived, "gamma")
}

func TestConfigRootFindSettingsReachEngine(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "nozzle.ini", "[rootfind]\nmax_iterations = 7\nxtol = 1e-6\nftol = 1e-7\naccept_tol = 1e-5\n"))
	require.NoError(t, err)

	opts := &RootOptions{Config: cfg}
	got := opts.newEngine(nil).RootFindOptions()
	assert.Equal(t, rootfind.Options{
		MaxIterations: 7,
		XTol:          1e-6,
		FTol:          1e-7,
		AcceptTol:     1e-5,
	}, got)
}
