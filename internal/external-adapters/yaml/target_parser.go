// Package yaml provides file-based resign target parsing and repository implementations.
package yaml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/ochairo/android-resign/internal/domain/entities"
)

// yamlTarget mirrors one element of the targets array.
// BuildNumber is often written as a number, so decoding is weakly typed.
type yamlTarget struct {
	Version     string `mapstructure:"Version"`
	BuildNumber string `mapstructure:"BuildNumber"`
	BundleID    string `mapstructure:"BundleId"`
}

// TargetParser parses resign target files (a JSON or YAML array of objects)
type TargetParser struct{}

// NewTargetParser creates a new target parser
func NewTargetParser() *TargetParser {
	return &TargetParser{}
}

// ParseFile parses a targets file into manifest targets
func (p *TargetParser) ParseFile(filePath string) ([]entities.ManifestTarget, error) {
	//nolint:gosec // G304: filePath comes from the step configuration
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses JSON or YAML bytes into manifest targets, preserving order
func (p *TargetParser) Parse(data []byte) ([]entities.ManifestTarget, error) {
	var raw []map[string]interface{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	// JSON is tried first: pretty-printed JSON may be tab-indented, which YAML rejects
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		raw = nil
		if yerr := yaml.Unmarshal(trimmed, &raw); yerr != nil {
			return nil, fmt.Errorf("failed to parse targets: %w", yerr)
		}
	}

	targets := make([]entities.ManifestTarget, 0, len(raw))
	for i, item := range raw {
		var yt yamlTarget
		if err := mapstructure.WeakDecode(item, &yt); err != nil {
			return nil, fmt.Errorf("invalid target at index %d: %w", i, err)
		}
		targets = append(targets, convertTarget(yt))
	}

	return targets, nil
}

func convertTarget(yt yamlTarget) entities.ManifestTarget {
	return entities.ManifestTarget{
		VersionName: yt.Version,
		VersionCode: yt.BuildNumber,
		PackageID:   yt.BundleID,
	}
}
