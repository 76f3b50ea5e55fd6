package gateways

import (
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/services"
)

// Published output variables
const (
	EnvSignedAPKPath = "AC_SIGNED_APK_PATH"
	EnvSignedAABPath = "AC_SIGNED_AAB_PATH"
)

// EnvExporter appends output variables to the step's env file
type EnvExporter struct {
	path   string
	logger interfaces.Logger
}

// NewEnvExporter creates an exporter writing to path
func NewEnvExporter(path string, logger interfaces.Logger) *EnvExporter {
	return &EnvExporter{path: path, logger: interfaces.LoggerOrNoOp(logger)}
}

// Export appends the signed APK and AAB path lists, each joined with "|".
// Empty lists are still written so later steps see the variables.
func (e *EnvExporter) Export(apks, aabs []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", EnvSignedAPKPath, services.JoinPaths(apks))
	fmt.Fprintf(&b, "%s=%s\n", EnvSignedAABPath, services.JoinPaths(aabs))

	//nolint:gosec // G302,G304: env file path and mode are dictated by the CI runner
	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open env file %s: %w", e.path, err)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		//nolint:errcheck,gosec // G104: already failing
		f.Close()
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close env file: %w", err)
	}

	e.logger.Info("Exported signed artifacts",
		interfaces.F(EnvSignedAPKPath, services.JoinPaths(apks)),
		interfaces.F(EnvSignedAABPath, services.JoinPaths(aabs)))
	return nil
}
