// Package services contains the pure decision logic of the resign pipeline.
package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/entities"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

// Naming markers used in artifact base names
const (
	SignedMarker   = "-ac-signed"
	UnsignedMarker = "-unsigned"

	// PathDelimiter joins batches of artifact paths in inputs and outputs
	PathDelimiter = "|"
)

// signingFileExtensions are the META-INF entries that make up a v1 signature
var signingFileExtensions = map[string]bool{
	".mf":  true,
	".rsa": true,
	".dsa": true,
	".ec":  true,
	".sf":  true,
}

// IsSigned reports whether any entry is a DSA or RSA signature block
func IsSigned(entries entities.SignatureEntrySet) bool {
	for _, entry := range entries {
		lower := strings.ToLower(entry)
		if strings.Contains(lower, ".dsa") || strings.Contains(lower, ".rsa") {
			return true
		}
	}
	return false
}

// SigningFiles returns the entries that must be removed to unsign an artifact
func SigningFiles(entries entities.SignatureEntrySet) []string {
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if signingFileExtensions[strings.ToLower(filepath.Ext(entry))] {
			files = append(files, entry)
		}
	}
	return files
}

// BeautifyBaseName strips previous signing markers and appends exactly one signed marker
func BeautifyBaseName(baseName string) string {
	name := strings.ReplaceAll(baseName, UnsignedMarker, "")
	name = strings.ReplaceAll(name, SignedMarker, "")
	return name + SignedMarker
}

// OutputExtension returns ".apk" for bundles being converted, the input extension otherwise
func OutputExtension(ext string, convert bool) string {
	if ext == entities.ExtensionAAB && convert {
		return entities.ExtensionAPK
	}
	return ext
}

// OutputPath builds the published path for an artifact
func OutputPath(outputDir string, artifact entities.ArtifactDescriptor, convert bool) string {
	name := BeautifyBaseName(artifact.BaseName) + OutputExtension(artifact.Extension, convert)
	return filepath.Join(outputDir, name)
}

// SelectAction applies the branch table for an artifact type and conversion flag
func SelectAction(ext string, convert bool) (entities.Action, error) {
	switch ext {
	case entities.ExtensionAPK:
		return entities.ActionAlignAndSign, nil
	case entities.ExtensionAAB:
		if convert {
			return entities.ActionConvert, nil
		}
		return entities.ActionLegacySignAndAlign, nil
	default:
		return "", fmt.Errorf("%w: %q", resignerrors.ErrUnsupportedArtifact, ext)
	}
}

// SplitArtifactPaths splits a delimiter-joined path list, dropping blank items
func SplitArtifactPaths(joined string) []string {
	var paths []string
	for _, p := range strings.Split(joined, PathDelimiter) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// JoinPaths joins paths with the batch delimiter
func JoinPaths(paths []string) string {
	return strings.Join(paths, PathDelimiter)
}
