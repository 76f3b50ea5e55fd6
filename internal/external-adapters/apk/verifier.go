package apk

import (
	"fmt"

	"github.com/avast/apkverifier"

	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

// SignatureVerifier checks v1/v2/v3 APK signatures natively
type SignatureVerifier struct{}

// NewSignatureVerifier creates a new signature verifier
func NewSignatureVerifier() *SignatureVerifier {
	return &SignatureVerifier{}
}

// VerifyAPK verifies the APK at path and describes its best signer certificate
func (v *SignatureVerifier) VerifyAPK(path string) (*gateways.SignatureInfo, error) {
	res, err := apkverifier.Verify(path, nil)
	if err != nil {
		return nil, fmt.Errorf("APK signature verification failed: %w", err)
	}

	info, _ := apkverifier.PickBestApkCert(res.SignerCerts)
	if info == nil {
		return nil, fmt.Errorf("APK has no usable signer certificate")
	}

	return &gateways.SignatureInfo{
		Scheme:      res.SigningSchemeId,
		Subject:     info.Subject,
		Fingerprint: info.Sha256,
	}, nil
}
