package zerolog

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/logging"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_FieldTypes(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf))

	l.Info("signed",
		interfaces.F("path", "/out/app-ac-signed.apk"),
		interfaces.F("entries", []string{"META-INF/CERT.RSA"}),
		interfaces.F("count", 2),
		interfaces.F("converted", false),
		interfaces.F("took", 1500*time.Millisecond),
		interfaces.F("cause", errors.New("boom")),
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "signed", entry["message"])
	assert.Equal(t, "/out/app-ac-signed.apk", entry["path"])
	assert.Equal(t, float64(2), entry["count"])
	assert.Equal(t, false, entry["converted"])
	assert.Equal(t, "boom", entry["cause"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(zerolog.New(&buf)).With(interfaces.F("run_id", "abc"))

	l.Warn("careful")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestBuild_JSONMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	secret := "s3cr" + "et-value"

	l, closer, err := Build(Options{
		Format:  FormatJSON,
		Console: &buf,
		Masker:  logging.NewSecretMasker(secret),
	})
	require.NoError(t, err)
	defer closer.Close()

	l.Info("running", interfaces.F("command", "apksigner --ks-pass pass:"+secret))

	assert.NotContains(t, buf.String(), secret)
	assert.Contains(t, buf.String(), logging.RedactedValue)
}

func TestBuild_LevelSelection(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := Build(Options{Format: FormatJSON, Console: &buf, Quiet: true})
	require.NoError(t, err)

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuild_LogFile(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "resign.log")

	l, closer, err := Build(Options{Format: FormatConsole, Console: &buf, LogFile: logFile})
	require.NoError(t, err)

	l.Info("to both")
	require.NoError(t, closer.Close())

	assert.FileExists(t, logFile)
	assert.Contains(t, buf.String(), "to both")
}
