package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/android-resign/internal/config"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// clearInputs unsets every configuration key for the duration of the test
func clearInputs(t *testing.T) {
	t.Helper()
	for _, key := range config.Keys() {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Chdir(t.TempDir())
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "1.2.3 (commit: abc, built: today)", formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}))
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "resign 1.2.3 (commit: abc, built: today)\n", out)
}

func TestRun_SkipsWithoutKeystore(t *testing.T) {
	clearInputs(t)
	envFile := filepath.Join(t.TempDir(), "env")
	t.Setenv(config.KeyEnvFilePath, envFile)

	for _, args := range [][]string{nil, {"run"}} {
		out, err := executeRoot(t, append(args, "--log-format", "json")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Skipping step")
	}

	_, err := os.Stat(envFile)
	assert.True(t, os.IsNotExist(err), "skip must not write the env file")
}

func TestRun_MissingRequiredInput(t *testing.T) {
	clearInputs(t)
	t.Setenv(config.KeyKeystorePath, "/keys/release.jks")

	_, err := executeRoot(t, "run", "--log-format", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resignerrors.ErrConfigMissing))
	assert.Contains(t, err.Error(), config.KeyOutputDir)
}

func TestRun_MasksPasswordsInLogs(t *testing.T) {
	clearInputs(t)
	t.Setenv(config.KeyKeystorePath, "/keys/release.jks")
	t.Setenv(config.KeyOutputDir, t.TempDir())
	t.Setenv(config.KeyKeystorePassword, "store-secret-1")
	t.Setenv(config.KeyAlias, "upload")
	t.Setenv(config.KeyAliasPassword, "alias-secret-2")
	t.Setenv(config.KeyAndroidHome, filepath.Join(t.TempDir(), "no-sdk"))
	t.Setenv(config.KeyTempDir, t.TempDir())
	t.Setenv(config.KeyEnvFilePath, filepath.Join(t.TempDir(), "env"))

	out, err := executeRoot(t, "run", "-v", "--log-format", "json")
	require.Error(t, err, "an empty SDK has no build-tools")
	assert.NotContains(t, out, "store-secret-1")
	assert.NotContains(t, out, "alias-secret-2")
}

func TestRoot_InvalidLogFormat(t *testing.T) {
	_, err := executeRoot(t, "--log-format", "xml")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid --log-format"))
}

func TestVerify_RequiresArgs(t *testing.T) {
	_, err := executeRoot(t, "verify")
	require.Error(t, err)
}
