package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

// ApkSigner signs APKs in place with the build-tools apksigner
type ApkSigner struct {
	runner gateways.CommandRunner
	tool   string
	logger interfaces.Logger
}

// NewApkSigner creates an apksigner gateway; tool is the apksigner executable path
func NewApkSigner(runner gateways.CommandRunner, tool string, logger interfaces.Logger) *ApkSigner {
	if tool == "" {
		tool = "apksigner"
	}
	return &ApkSigner{runner: runner, tool: tool, logger: interfaces.LoggerOrNoOp(logger)}
}

// ApkSignerArgs returns the apksigner argument vector for signing path in place
func ApkSignerArgs(path string, creds entities.SigningCredentials) []string {
	return []string{
		"sign",
		"--in", path,
		"--out", path,
		"--ks", creds.KeystorePath,
		"--ks-pass", "pass:" + creds.KeystorePassword,
		"--ks-key-alias", creds.Alias,
		"--key-pass", "pass:" + creds.AliasPassword,
	}
}

// Sign implements gateways.Signer
func (s *ApkSigner) Sign(ctx context.Context, path string, creds entities.SigningCredentials) error {
	s.logger.Info("Signing with apksigner", interfaces.F("path", path))
	if _, err := s.runner.Run(ctx, gateways.Command{
		Name:        s.tool,
		Args:        ApkSignerArgs(path, creds),
		Description: "apksigner sign",
	}); err != nil {
		return fmt.Errorf("failed to sign %s with apksigner: %w", path, err)
	}
	return nil
}

// JarSigner applies a legacy v1 JAR signature in place
type JarSigner struct {
	runner gateways.CommandRunner
	tool   string
	logger interfaces.Logger
}

// NewJarSigner creates a jarsigner gateway; an empty tool resolves jarsigner from PATH
func NewJarSigner(runner gateways.CommandRunner, tool string, logger interfaces.Logger) *JarSigner {
	if tool == "" {
		tool = "jarsigner"
	}
	return &JarSigner{runner: runner, tool: tool, logger: interfaces.LoggerOrNoOp(logger)}
}

// JarSignerArgs returns the jarsigner argument vector; path and alias come last
func JarSignerArgs(path string, creds entities.SigningCredentials) []string {
	return []string{
		"-verbose",
		"-sigalg", "SHA1withRSA",
		"-digestalg", "SHA1",
		"-keystore", creds.KeystorePath,
		"-storepass", creds.KeystorePassword,
		"-keypass", creds.AliasPassword,
		path,
		creds.Alias,
	}
}

// Sign implements gateways.Signer
func (s *JarSigner) Sign(ctx context.Context, path string, creds entities.SigningCredentials) error {
	s.logger.Info("Signing with jarsigner", interfaces.F("path", path))
	if _, err := s.runner.Run(ctx, gateways.Command{
		Name:        s.tool,
		Args:        JarSignerArgs(path, creds),
		Description: "jarsigner sign",
	}); err != nil {
		return fmt.Errorf("failed to sign %s with jarsigner: %w", path, err)
	}
	return nil
}
