package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

// manifestChangerName is the helper binary prefix shipped next to the resign executable
const manifestChangerName = "androidmanifest-changer"

// ManifestChanger rewrites package identity fields with the androidmanifest-changer helper
type ManifestChanger struct {
	runner        gateways.CommandRunner
	helper        string
	buildToolsDir string
	logger        interfaces.Logger
}

// NewManifestChanger creates a manifest changer; buildToolsDir is appended to the helper's PATH
func NewManifestChanger(runner gateways.CommandRunner, helper, buildToolsDir string, logger interfaces.Logger) *ManifestChanger {
	return &ManifestChanger{
		runner:        runner,
		helper:        helper,
		buildToolsDir: buildToolsDir,
		logger:        interfaces.LoggerOrNoOp(logger),
	}
}

// DefaultManifestChangerPath returns the platform helper located next to the running executable
func DefaultManifestChangerPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), ManifestChangerBinary(runtime.GOOS)), nil
}

// ManifestChangerBinary returns the helper file name for goos
func ManifestChangerBinary(goos string) string {
	if goos == "darwin" {
		return manifestChangerName + "-mac"
	}
	return manifestChangerName + "-linux"
}

// ManifestChangerArgs builds the helper flags in fixed order, omitting absent fields
func ManifestChangerArgs(artifactPath string, target *entities.ManifestTarget) []string {
	var args []string
	if target.VersionCode != "" {
		args = append(args, "--versionCode", target.VersionCode)
	}
	if target.VersionName != "" {
		args = append(args, "--versionName", target.VersionName)
	}
	if target.PackageID != "" {
		args = append(args, "--package", target.PackageID)
	}
	return append(args, artifactPath)
}

// UpdateManifest applies target to the manifest of the artifact at artifactPath in place.
// A nil or empty target is not an error; the change is skipped.
func (m *ManifestChanger) UpdateManifest(ctx context.Context, artifactPath string, target *entities.ManifestTarget) error {
	if target.IsEmpty() {
		m.logger.Info("Manifest change skipped", interfaces.F("path", artifactPath))
		return nil
	}

	//nolint:gosec // G302: the helper must be executable
	if err := os.Chmod(m.helper, 0755); err != nil {
		return fmt.Errorf("manifest changer not available at %s: %w", m.helper, err)
	}

	var env []string
	if m.buildToolsDir != "" {
		env = append(env, "PATH="+os.Getenv("PATH")+string(os.PathListSeparator)+m.buildToolsDir)
	}

	m.logger.Info("Updating manifest",
		interfaces.F("path", artifactPath),
		interfaces.F("version_code", target.VersionCode),
		interfaces.F("version_name", target.VersionName),
		interfaces.F("package", target.PackageID))

	if _, err := m.runner.Run(ctx, gateways.Command{
		Name:        m.helper,
		Args:        ManifestChangerArgs(artifactPath, target),
		Env:         env,
		Description: "update manifest",
	}); err != nil {
		return fmt.Errorf("failed to update manifest of %s: %w", artifactPath, err)
	}

	return nil
}
