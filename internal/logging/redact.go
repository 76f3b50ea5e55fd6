// Package logging keeps keystore credentials out of console output and log files.
package logging

import (
	"bytes"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// MinSecretLength is the shortest registered value masked by literal match.
// Shorter values would also hit timestamps and JSON keys; the credential
// patterns still cover them in tool arguments.
const MinSecretLength = 3

// sensitivePatterns catch credential shapes even when the value itself is unknown.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// apksigner / bundletool password sources (pass:secret)
	regexp.MustCompile(`pass:[^\s'"\\,]+`),

	// jarsigner / keytool password flags followed by a value
	regexp.MustCompile(`(?i)(-storepass|-keypass)\s+(?:'[^']*'|[^\s'"\\,]+)`),

	// Generic secret assignments
	regexp.MustCompile(`(?i)(password|passwd|secret|token)\s*[:=]\s*[^\s'"\\,]{4,}`),

	// PEM private keys
	regexp.MustCompile(`(?i)-----BEGIN[A-Z\s]+PRIVATE KEY-----`),
}

// SecretMasker replaces registered secret values and credential patterns.
// It is safe for concurrent use.
type SecretMasker struct {
	mu      sync.RWMutex
	secrets []string
}

// NewSecretMasker creates a masker for the given secret values.
func NewSecretMasker(secrets ...string) *SecretMasker {
	m := &SecretMasker{}
	m.Add(secrets...)
	return m
}

// Add registers more secret values. Values shorter than MinSecretLength are ignored.
func (m *SecretMasker) Add(secrets ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range secrets {
		if len(s) >= MinSecretLength {
			m.secrets = append(m.secrets, s)
		}
	}
	// longest first so a secret containing another is masked whole
	sort.Slice(m.secrets, func(i, j int) bool { return len(m.secrets[i]) > len(m.secrets[j]) })
}

// Mask returns s with every secret value and credential pattern redacted.
func (m *SecretMasker) Mask(s string) string {
	if m != nil {
		m.mu.RLock()
		for _, secret := range m.secrets {
			s = strings.ReplaceAll(s, secret, RedactedValue)
		}
		m.mu.RUnlock()
	}
	return maskPatterns(s)
}

// MaskAll masks each element of args, returning a new slice.
func (m *SecretMasker) MaskAll(args []string) []string {
	masked := make([]string, len(args))
	for i, a := range args {
		masked[i] = m.Mask(a)
	}
	return masked
}

func maskPatterns(s string) string {
	for _, pattern := range sensitivePatterns {
		s = pattern.ReplaceAllStringFunc(s, redactMatch)
	}
	return s
}

// redactMatch keeps the key or flag part of a match and hides its value.
func redactMatch(match string) string {
	if strings.HasPrefix(match, "pass:") {
		return "pass:" + RedactedValue
	}
	if i := strings.IndexAny(match, " \t:="); i > 0 && !strings.HasPrefix(match, "-----") {
		return match[:i+1] + RedactedValue
	}
	return RedactedValue
}

// ContainsSensitiveData reports whether s matches a credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilteringWriter wraps an io.Writer and masks secrets before writing.
// Output is forwarded one complete line at a time so a secret split across
// two writes is still masked; call Flush to emit a trailing partial line.
type FilteringWriter struct {
	mu      sync.Mutex
	w       io.Writer
	masker  *SecretMasker
	pending []byte
}

// NewFilteringWriter creates a FilteringWriter around w.
func NewFilteringWriter(w io.Writer, masker *SecretMasker) *FilteringWriter {
	return &FilteringWriter{w: w, masker: masker}
}

// Write implements io.Writer. It reports len(p) on success so callers never see a short write.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending = append(fw.pending, p...)
	end := bytes.LastIndexByte(fw.pending, '\n')
	if end < 0 {
		return len(p), nil
	}

	lines := fw.pending[:end+1]
	if _, err := fw.w.Write([]byte(fw.masker.Mask(string(lines)))); err != nil {
		return 0, err
	}
	fw.pending = append(fw.pending[:0], fw.pending[end+1:]...)
	return len(p), nil
}

// Flush writes any buffered partial line.
func (fw *FilteringWriter) Flush() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if len(fw.pending) == 0 {
		return nil
	}
	_, err := fw.w.Write([]byte(fw.masker.Mask(string(fw.pending))))
	fw.pending = fw.pending[:0]
	return err
}

// Close flushes buffered output. The wrapped writer is left open.
func (fw *FilteringWriter) Close() error {
	return fw.Flush()
}

// SensitiveDataHook flags log events whose message still looks sensitive.
// zerolog hooks cannot rewrite the message, so masking itself happens in FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements zerolog.Hook.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}
