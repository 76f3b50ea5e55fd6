package gateways

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

// unsignedMarker is what jarsigner prints for an archive without a v1 signature
const unsignedMarker = "jar is unsigned."

// Verifier checks that an artifact carries a signature
type Verifier struct {
	runner gateways.CommandRunner
	tool   string
	native gateways.SignatureVerifier
	logger interfaces.Logger
}

// NewVerifier creates a verifier. native may be nil; when set it is consulted for
// APKs that carry only APK Signature Scheme v2/v3 blocks.
func NewVerifier(runner gateways.CommandRunner, tool string, native gateways.SignatureVerifier, logger interfaces.Logger) *Verifier {
	if tool == "" {
		tool = "jarsigner"
	}
	return &Verifier{runner: runner, tool: tool, native: native, logger: interfaces.LoggerOrNoOp(logger)}
}

// Verify returns errors.ErrVerificationFailed when path is unsigned.
// An APK that jarsigner reports as unsigned still passes when it carries a valid
// v2 or v3 signature, since apksigner may omit the v1 scheme.
func (v *Verifier) Verify(ctx context.Context, path string) error {
	result, err := v.runner.Run(ctx, gateways.Command{
		Name:        v.tool,
		Args:        []string{"-verify", "-verbose", "-certs", path},
		Description: "jarsigner verify",
	})
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", path, err)
	}

	if !strings.Contains(result.Stdout, unsignedMarker) {
		v.logger.Info("Signature verified", interfaces.F("path", path), interfaces.F("scheme", "v1"))
		return nil
	}

	if v.native != nil && strings.EqualFold(filepath.Ext(path), entities.ExtensionAPK) {
		info, nativeErr := v.native.VerifyAPK(path)
		if nativeErr == nil {
			v.logger.Info("Signature verified",
				interfaces.F("path", path),
				interfaces.F("scheme", fmt.Sprintf("v%d", info.Scheme)),
				interfaces.F("subject", info.Subject),
				interfaces.F("sha256", info.Fingerprint))
			return nil
		}
		v.logger.Debug("Native APK verification failed", interfaces.F("error", nativeErr.Error()))
	}

	return fmt.Errorf("%s: %w", path, resignerrors.ErrVerificationFailed)
}
