package gateways

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/services"
)

// idsigExtension is the v4 signature side file apksigner leaves next to its output
const idsigExtension = ".idsig"

// ArtifactFinder provides utilities for locating signed artifacts
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// FindSigned searches outputDir recursively for signed APKs and AABs, in lexical walk order.
// A missing directory yields no artifacts.
func (f *ArtifactFinder) FindSigned(outputDir string) (apks, aabs []string, err error) {
	if _, statErr := os.Stat(outputDir); os.IsNotExist(statErr) {
		return nil, nil, nil
	}

	apkSuffix := services.SignedMarker + entities.ExtensionAPK
	aabSuffix := services.SignedMarker + entities.ExtensionAAB

	err = filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch basename := d.Name(); {
		case strings.HasSuffix(basename, apkSuffix):
			apks = append(apks, path)
		case strings.HasSuffix(basename, aabSuffix):
			aabs = append(aabs, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search %s: %w", outputDir, err)
	}

	return apks, aabs, nil
}

// RemoveIdsig deletes the *.idsig files directly inside outputDir and returns their paths
func (f *ArtifactFinder) RemoveIdsig(outputDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, "*"+idsigExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to glob idsig files: %w", err)
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove %s: %w", match, err)
		}
	}

	return matches, nil
}
