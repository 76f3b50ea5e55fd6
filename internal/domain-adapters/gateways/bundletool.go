package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

// LatestVersion selects the newest published bundletool release
const LatestVersion = "latest"

// universalAPK is the entry bundletool writes for --mode=universal
const universalAPK = "universal.apk"

// BundletoolConfig configures a Bundletool converter
type BundletoolConfig struct {
	TempDir string
	Version string // concrete version, "latest" or empty
	Java    string // defaults to "java"
	Unzip   string // defaults to "unzip"
}

// Bundletool converts app bundles into signed universal APKs
type Bundletool struct {
	runner     gateways.CommandRunner
	downloader gateways.FileDownloader
	resolver   gateways.VersionResolver
	config     BundletoolConfig
	logger     interfaces.Logger

	resolved string
}

// NewBundletool creates a converter. The jar is fetched on first use.
func NewBundletool(
	runner gateways.CommandRunner,
	downloader gateways.FileDownloader,
	resolver gateways.VersionResolver,
	config BundletoolConfig,
	logger interfaces.Logger,
) *Bundletool {
	if config.Java == "" {
		config.Java = "java"
	}
	if config.Unzip == "" {
		config.Unzip = "unzip"
	}
	return &Bundletool{
		runner:     runner,
		downloader: downloader,
		resolver:   resolver,
		config:     config,
		logger:     interfaces.LoggerOrNoOp(logger),
	}
}

// toolDir holds the cached bundletool jars
func (b *Bundletool) toolDir() string {
	return filepath.Join(b.config.TempDir, "bundletool")
}

// outputDir receives the extracted APK set
func (b *Bundletool) outputDir() string {
	return filepath.Join(b.config.TempDir, "output", "bundle")
}

// ResolveVersion returns the configured version, asking the resolver for "latest" or empty.
// The result is reused for the rest of the run.
func (b *Bundletool) ResolveVersion(ctx context.Context) (string, error) {
	if b.resolved != "" {
		return b.resolved, nil
	}

	version := strings.TrimSpace(b.config.Version)
	if version == "" || strings.EqualFold(version, LatestVersion) {
		latest, err := b.resolver.ResolveLatestVersion(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve latest bundletool version: %w", err)
		}
		version = latest
	}

	b.resolved = version
	b.logger.Info("Using bundletool", interfaces.F("version", version))
	return version, nil
}

// EnsureJar returns the path of the bundletool jar, downloading it when absent
func (b *Bundletool) EnsureJar(ctx context.Context) (string, error) {
	version, err := b.ResolveVersion(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.toolDir(), 0750); err != nil {
		return "", fmt.Errorf("failed to create bundletool directory: %w", err)
	}

	jar := filepath.Join(b.toolDir(), BundletoolJarName(version))
	if _, err := os.Stat(jar); err == nil {
		b.logger.Debug("Bundletool jar already present", interfaces.F("path", jar))
		return jar, nil
	}

	if err := b.downloader.DownloadFile(ctx, BundletoolDownloadURL(version), jar); err != nil {
		return "", fmt.Errorf("failed to download bundletool %s: %w", version, err)
	}

	return jar, nil
}

// BuildAPKsArgs returns the java argument vector for a universal build-apks run
func BuildAPKsArgs(jar, bundlePath, apksPath string, creds entities.SigningCredentials) []string {
	return []string{
		"-jar", jar, "build-apks",
		"--overwrite",
		"--bundle=" + bundlePath,
		"--output=" + apksPath,
		"--ks=" + creds.KeystorePath,
		"--ks-pass=pass:" + creds.KeystorePassword,
		"--ks-key-alias=" + creds.Alias,
		"--key-pass=pass:" + creds.AliasPassword,
		"--mode=universal",
	}
}

// Convert builds a signed universal APK from bundlePath and moves it to outputPath
func (b *Bundletool) Convert(ctx context.Context, bundlePath, outputPath string, creds entities.SigningCredentials) error {
	jar, err := b.EnsureJar(ctx)
	if err != nil {
		return err
	}

	outDir := b.outputDir()
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create bundle output directory: %w", err)
	}
	apksPath := filepath.Join(outDir, "app.apks")

	if _, err := b.runner.Run(ctx, gateways.Command{
		Name:        b.config.Java,
		Args:        BuildAPKsArgs(jar, bundlePath, apksPath, creds),
		Description: "bundletool build-apks",
	}); err != nil {
		return fmt.Errorf("failed to build universal APK set: %w", err)
	}

	if _, err := b.runner.Run(ctx, gateways.Command{
		Name:        b.config.Unzip,
		Args:        []string{"-o", apksPath, "-d", outDir},
		Description: "extract APK set",
	}); err != nil {
		return fmt.Errorf("failed to extract APK set: %w", err)
	}

	universal := filepath.Join(outDir, universalAPK)
	if _, err := os.Stat(universal); err != nil {
		return fmt.Errorf("%s missing in %s: %w", universalAPK, outDir, resignerrors.ErrArtifactNotFound)
	}

	if err := MoveFile(universal, outputPath); err != nil {
		return fmt.Errorf("failed to move universal APK: %w", err)
	}

	b.logger.Info("Converted bundle to universal APK",
		interfaces.F("bundle", bundlePath),
		interfaces.F("output", outputPath))
	return nil
}
