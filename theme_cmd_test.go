package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

// runCLIContext executes the root command with ctx. cobra only hands the
// root context to subcommands without one, so the tree is cleared afterwards.
func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetContext(rootCmd)
	})
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func resetContext(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		c.SetContext(nil) //nolint:staticcheck // nil lets the next run inherit
		resetContext(c)
	}
}

func cliEnv(t *testing.T, backend, scheme string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PREFS_BACKEND", backend)
	t.Setenv("PORTFOLIO_OS_SCHEME", scheme)
	return dir
}

func TestThemeCommand_TomlBackendPersists(t *testing.T) {
	dir := cliEnv(t, "toml", "dark")

	out, err := runCLI(t, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark (following desktop)\n", out)

	out, err = runCLI(t, "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "light (explicit)\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "preferences.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "light")

	out, err = runCLI(t, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light (explicit)\n", out)

	out, err = runCLI(t, "theme", "reset")
	require.NoError(t, err)
	assert.Equal(t, "dark (following desktop)\n", out)
}

func TestThemeCommand_SQLiteBackend(t *testing.T) {
	cliEnv(t, "sqlite", "light")

	out, err := runCLI(t, "theme", "set", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark (explicit)\n", out)

	out, err = runCLI(t, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark (explicit)\n", out)
}

func TestThemeCommand_SetRejectsInvalid(t *testing.T) {
	cliEnv(t, "memory", "dark")

	_, err := runCLI(t, "theme", "set", "sepia")
	assert.Error(t, err)
}

func TestThemeCommand_WatchPrintsCurrentUntilCancelled(t *testing.T) {
	cliEnv(t, "memory", "dark")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runCLIContext(t, ctx, "theme", "watch")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)
}

func TestProfileCommand_JSON(t *testing.T) {
	cliEnv(t, "memory", "dark")

	out, err := runCLI(t, "profile", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Pranav Agarkar"`)
	assert.Contains(t, out, `"isLive": true`)
}
