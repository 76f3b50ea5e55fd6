package gateways

import (
	"context"

	"github.com/ochairo/android-resign/internal/domain/entities"
)

// BuildToolsLocator resolves the Android SDK build-tools directory to use
type BuildToolsLocator interface {
	LatestBuildToolsDir() (string, error)
	ToolPath(name string) (string, error)
}

// VersionResolver resolves the latest published bundletool version
type VersionResolver interface {
	ResolveLatestVersion(ctx context.Context) (string, error)
}

// ManifestInfo is the identity read back from a packaged APK manifest
type ManifestInfo struct {
	PackageID   string
	VersionCode string
	VersionName string
}

// ManifestReader reads the binary manifest of an APK
type ManifestReader interface {
	ReadManifest(path string) (*ManifestInfo, error)
}

// SignatureInfo describes a signature found by a native APK verifier
type SignatureInfo struct {
	Scheme      int
	Subject     string
	Fingerprint string
}

// SignatureVerifier verifies APK Signature Scheme blocks without external tools
type SignatureVerifier interface {
	VerifyAPK(path string) (*SignatureInfo, error)
}

// Signer applies a signature to an artifact in place
type Signer interface {
	Sign(ctx context.Context, path string, creds entities.SigningCredentials) error
}

// FileDownloader fetches a remote file to a local path
type FileDownloader interface {
	DownloadFile(ctx context.Context, url, dest string) error
}
