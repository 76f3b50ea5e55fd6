// Package apk reads and verifies packaged APKs without external tools.
// It wraps avast's apkparser and apkverifier.
package apk

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/avast/apkparser"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

type manifest struct {
	XMLName     xml.Name `xml:"manifest"`
	PackageName string   `xml:"package,attr"`
	VersionCode string   `xml:"versionCode,attr"`
	VersionName string   `xml:"versionName,attr"`
}

// ManifestReader decodes AndroidManifest.xml from an APK
type ManifestReader struct {
	logger interfaces.Logger
}

// NewManifestReader creates a new manifest reader
func NewManifestReader(logger interfaces.Logger) *ManifestReader {
	return &ManifestReader{logger: interfaces.LoggerOrNoOp(logger)}
}

// ReadManifest returns the package id and version of the APK at path
func (r *ManifestReader) ReadManifest(path string) (*gateways.ManifestInfo, error) {
	var content bytes.Buffer
	enc := xml.NewEncoder(&content)

	zipErr, resErr, manErr := apkparser.ParseApk(path, enc)
	if zipErr != nil {
		return nil, fmt.Errorf("failed to open APK: %w", zipErr)
	}
	if resErr != nil {
		// only resource references stay unresolved; package and version are literal attributes
		r.logger.Debug("Resource table not readable",
			interfaces.F("path", path),
			interfaces.F("error", resErr.Error()))
	}
	if manErr != nil {
		return nil, fmt.Errorf("failed to parse AndroidManifest.xml: %w", manErr)
	}

	var m manifest
	if err := xml.Unmarshal(content.Bytes(), &m); err != nil {
		return nil, fmt.Errorf("failed to decode AndroidManifest.xml: %w", err)
	}

	return &gateways.ManifestInfo{
		PackageID:   m.PackageName,
		VersionCode: m.VersionCode,
		VersionName: m.VersionName,
	}, nil
}
