// Package entities defines core domain models and data structures.
package entities

import (
	"path/filepath"
	"strings"
)

// Artifact extensions handled by the pipeline
const (
	ExtensionAPK = ".apk"
	ExtensionAAB = ".aab"
)

// ArtifactDescriptor describes one input artifact and its scratch copy
type ArtifactDescriptor struct {
	SourcePath  string
	WorkingPath string // fresh copy in the temp dir; every mutation happens here
	Extension   string // ".apk" or ".aab"
	BaseName    string // file name without extension
}

// NewArtifactDescriptor derives the descriptor for sourcePath staged under tempDir
func NewArtifactDescriptor(sourcePath, tempDir string) ArtifactDescriptor {
	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(filepath.Base(sourcePath), ext)

	return ArtifactDescriptor{
		SourcePath:  sourcePath,
		WorkingPath: filepath.Join(tempDir, base+ext),
		Extension:   ext,
		BaseName:    base,
	}
}

// IsAPK reports whether the artifact is an installable APK
func (a ArtifactDescriptor) IsAPK() bool {
	return a.Extension == ExtensionAPK
}

// IsAAB reports whether the artifact is an app bundle
func (a ArtifactDescriptor) IsAAB() bool {
	return a.Extension == ExtensionAAB
}

// SignatureEntrySet lists signature-related entry names found inside an artifact
type SignatureEntrySet []string

// Action is the processing branch chosen for an artifact
type Action string

// Processing branches
const (
	ActionAlignAndSign       Action = "align+apksigner"
	ActionConvert            Action = "bundletool-universal"
	ActionLegacySignAndAlign Action = "jarsigner+align"
)

// ProcessedArtifact records what happened to one input artifact
type ProcessedArtifact struct {
	Descriptor ArtifactDescriptor
	OutputPath string
	Action     Action
	WasSigned  bool
}

// PipelineResult accumulates outputs in processing order
type PipelineResult struct {
	Artifacts      []ProcessedArtifact
	SignedAPKPaths []string
	SignedAABPaths []string
}

// Add records a processed artifact and files its output by extension
func (r *PipelineResult) Add(p ProcessedArtifact) {
	r.Artifacts = append(r.Artifacts, p)
	switch filepath.Ext(p.OutputPath) {
	case ExtensionAPK:
		r.SignedAPKPaths = append(r.SignedAPKPaths, p.OutputPath)
	case ExtensionAAB:
		r.SignedAABPaths = append(r.SignedAABPaths, p.OutputPath)
	}
}
