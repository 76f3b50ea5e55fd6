// Package androidsdk locates Android SDK build tools using bitrise's go-android SDK model.
package androidsdk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-android/sdk"

	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

var _ gateways.BuildToolsLocator = (*BuildTools)(nil)

// BuildTools resolves tools from the newest installed build-tools version
type BuildTools struct {
	androidHome string
	model       *sdk.Model
}

// NewBuildTools creates a locator for the SDK rooted at androidHome
func NewBuildTools(androidHome string) (*BuildTools, error) {
	model, err := sdk.New(androidHome)
	if err != nil {
		return nil, fmt.Errorf("failed to open android sdk at %s: %w", androidHome, err)
	}
	return &BuildTools{androidHome: androidHome, model: model}, nil
}

// LatestBuildToolsDir returns the directory of the highest installed build-tools version
func (b *BuildTools) LatestBuildToolsDir() (string, error) {
	dir, err := b.model.LatestBuildToolsDir()
	if err != nil {
		return "", fmt.Errorf("no build-tools found under %s: %w", filepath.Join(b.androidHome, "build-tools"), err)
	}
	return dir, nil
}

// ToolPath returns the path of a named tool inside the latest build-tools directory
func (b *BuildTools) ToolPath(name string) (string, error) {
	dir, err := b.LatestBuildToolsDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s not found in %s: %w", name, dir, err)
	}
	return path, nil
}
