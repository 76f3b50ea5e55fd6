// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	"github.com/ochairo/android-resign/internal/domain/interfaces/repositories"
	"github.com/ochairo/android-resign/internal/domain/services"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

// Stager copies an input artifact into the scratch directory
type Stager interface {
	Stage(sourcePath string) (entities.ArtifactDescriptor, error)
}

// Inspector lists and removes signature entries of an archive
type Inspector interface {
	ListSignatureEntries(ctx context.Context, path string) (entities.SignatureEntrySet, error)
	Unsign(ctx context.Context, path string, entries entities.SignatureEntrySet) error
}

// ManifestUpdater rewrites package identity fields of an artifact in place
type ManifestUpdater interface {
	UpdateManifest(ctx context.Context, artifactPath string, target *entities.ManifestTarget) error
}

// BundleConverter turns an app bundle into a signed universal APK
type BundleConverter interface {
	Convert(ctx context.Context, bundlePath, outputPath string, creds entities.SigningCredentials) error
}

// Aligner writes an aligned copy of an archive
type Aligner interface {
	Align(ctx context.Context, in, out string) error
}

// ArtifactVerifier checks that an output carries a signature
type ArtifactVerifier interface {
	Verify(ctx context.Context, path string) error
}

// OutputCollector locates published outputs and removes side files
type OutputCollector interface {
	FindSigned(outputDir string) (apks, aabs []string, err error)
	RemoveIdsig(outputDir string) ([]string, error)
}

// Exporter publishes the signed path lists to later build steps
type Exporter interface {
	Export(apks, aabs []string) error
}

// Checksummer computes and compares file digests
type Checksummer interface {
	CalculateChecksum(filePath string) (string, error)
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error
}

// ResignDependencies holds the collaborators of a ResignOrchestrator.
// Verifier and ManifestReader may be nil.
type ResignDependencies struct {
	Stager          Stager
	Targets         repositories.TargetRepository
	ManifestUpdater ManifestUpdater
	Inspector       Inspector
	Converter       BundleConverter
	ApkSigner       gateways.Signer
	JarSigner       gateways.Signer
	Aligner         Aligner
	Verifier        ArtifactVerifier
	Collector       OutputCollector
	Exporter        Exporter
	Checksums       Checksummer
	ManifestReader  gateways.ManifestReader
	Logger          interfaces.Logger
}

// ResignOrchestrator coordinates the complete re-signing workflow
type ResignOrchestrator struct {
	deps   ResignDependencies
	creds  entities.SigningCredentials
	config entities.PipelineConfig
	logger interfaces.Logger
}

// NewResignOrchestrator creates a new resign orchestrator
func NewResignOrchestrator(
	deps ResignDependencies,
	creds entities.SigningCredentials,
	config entities.PipelineConfig,
) *ResignOrchestrator {
	return &ResignOrchestrator{
		deps:   deps,
		creds:  creds,
		config: config,
		logger: interfaces.LoggerOrNoOp(deps.Logger),
	}
}

// stagedArtifact is a working copy plus the digest of its untouched source.
// An input that is its own output (an earlier result fed back in) is
// expected to be replaced and has no digest to check.
type stagedArtifact struct {
	descriptor    entities.ArtifactDescriptor
	sourceSum     string
	replacesInput bool
}

// Run re-signs every input artifact in order and publishes the results.
// The first failure aborts the run. Inputs are never modified unless an input
// already is the output it would produce.
func (o *ResignOrchestrator) Run(ctx context.Context, inputs []string) (*entities.PipelineResult, error) {
	startTime := time.Now()
	result := &entities.PipelineResult{}

	staged, err := o.stage(inputs)
	if err != nil {
		return result, err
	}

	if len(staged) > 0 {
		if err := o.updateManifest(ctx, staged[0].descriptor); err != nil {
			return result, err
		}
	} else {
		o.logger.Warn("No artifacts to resign")
	}

	if err := os.MkdirAll(o.config.OutputDir, 0750); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, s := range staged {
		o.logger.Info("Processing artifact",
			interfaces.F("index", i+1),
			interfaces.F("total", len(staged)),
			interfaces.F("path", s.descriptor.SourcePath))

		processed, err := o.process(ctx, s.descriptor)
		if err != nil {
			return result, err
		}
		result.Add(*processed)
		o.describeOutput(processed)

		if o.config.Verify && o.deps.Verifier != nil {
			if err := o.deps.Verifier.Verify(ctx, processed.OutputPath); err != nil {
				return result, err
			}
		}
	}

	for _, s := range staged {
		if s.replacesInput {
			continue
		}
		if err := o.deps.Checksums.VerifyChecksum(ctx, s.descriptor.SourcePath, s.sourceSum); err != nil {
			return result, fmt.Errorf("input artifact was modified: %w", err)
		}
	}

	if err := o.publish(result); err != nil {
		return result, err
	}

	o.logger.Info("Resign completed",
		interfaces.F("artifacts", len(result.Artifacts)),
		interfaces.F("duration", time.Since(startTime).String()))
	return result, nil
}

// stage validates every input and copies it to the scratch directory before any mutation
func (o *ResignOrchestrator) stage(inputs []string) ([]stagedArtifact, error) {
	staged := make([]stagedArtifact, 0, len(inputs))
	outputs := make(map[string]string, len(inputs))

	for _, input := range inputs {
		if _, err := services.SelectAction(filepath.Ext(input), o.config.ConvertAABToAPK); err != nil {
			return nil, fmt.Errorf("cannot resign %s: %w", input, err)
		}

		descriptor, err := o.deps.Stager.Stage(input)
		if err != nil {
			return nil, err
		}

		out := services.OutputPath(o.config.OutputDir, descriptor, o.config.ConvertAABToAPK)
		if previous, ok := outputs[out]; ok {
			return nil, fmt.Errorf("%s and %s both produce %s: %w",
				previous, input, out, resignerrors.ErrUnsupportedArtifact)
		}
		outputs[out] = input

		if sameFile(input, out) {
			o.logger.Info("Input is overwritten by its signed output", interfaces.F("path", input))
			staged = append(staged, stagedArtifact{descriptor: descriptor, replacesInput: true})
			continue
		}

		sum, err := o.deps.Checksums.CalculateChecksum(input)
		if err != nil {
			return nil, fmt.Errorf("failed to checksum %s: %w", input, err)
		}

		staged = append(staged, stagedArtifact{descriptor: descriptor, sourceSum: sum})
	}

	return staged, nil
}

// sameFile reports whether a and b name the same file, following links when both exist
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// updateManifest applies the primary target, if any, to the first working copy
func (o *ResignOrchestrator) updateManifest(ctx context.Context, descriptor entities.ArtifactDescriptor) error {
	target, err := o.deps.Targets.GetPrimaryTarget(ctx)
	if err != nil {
		return fmt.Errorf("failed to load resign targets: %w", err)
	}
	return o.deps.ManifestUpdater.UpdateManifest(ctx, descriptor.WorkingPath, target)
}

// process strips any existing signature and runs the branch for one artifact
func (o *ResignOrchestrator) process(ctx context.Context, d entities.ArtifactDescriptor) (*entities.ProcessedArtifact, error) {
	entries, err := o.deps.Inspector.ListSignatureEntries(ctx, d.WorkingPath)
	if err != nil {
		return nil, err
	}

	wasSigned := services.IsSigned(entries)
	if wasSigned {
		if err := o.deps.Inspector.Unsign(ctx, d.WorkingPath, entries); err != nil {
			return nil, err
		}
	} else {
		o.logger.Info("Artifact is not signed", interfaces.F("path", d.SourcePath))
	}

	action, err := services.SelectAction(d.Extension, o.config.ConvertAABToAPK)
	if err != nil {
		return nil, err
	}
	outputPath := services.OutputPath(o.config.OutputDir, d, o.config.ConvertAABToAPK)

	switch action {
	case entities.ActionAlignAndSign:
		if err := o.deps.Aligner.Align(ctx, d.WorkingPath, outputPath); err != nil {
			return nil, err
		}
		if err := o.deps.ApkSigner.Sign(ctx, outputPath, o.creds); err != nil {
			return nil, err
		}
	case entities.ActionConvert:
		if err := o.deps.Converter.Convert(ctx, d.WorkingPath, outputPath, o.creds); err != nil {
			return nil, err
		}
	case entities.ActionLegacySignAndAlign:
		if err := o.deps.JarSigner.Sign(ctx, d.WorkingPath, o.creds); err != nil {
			return nil, err
		}
		if err := o.deps.Aligner.Align(ctx, d.WorkingPath, outputPath); err != nil {
			return nil, err
		}
	}

	return &entities.ProcessedArtifact{
		Descriptor: d,
		OutputPath: outputPath,
		Action:     action,
		WasSigned:  wasSigned,
	}, nil
}

// describeOutput logs the digest and, for APKs, the manifest identity of an output
func (o *ResignOrchestrator) describeOutput(p *entities.ProcessedArtifact) {
	fields := []interfaces.Field{
		interfaces.F("output", p.OutputPath),
		interfaces.F("action", string(p.Action)),
		interfaces.F("was_signed", p.WasSigned),
	}

	if sum, err := o.deps.Checksums.CalculateChecksum(p.OutputPath); err == nil {
		fields = append(fields, interfaces.F("sha256", sum))
	} else {
		o.logger.Warn("Failed to checksum output", interfaces.F("error", err.Error()))
	}

	if o.deps.ManifestReader != nil && services.OutputExtension(p.Descriptor.Extension, o.config.ConvertAABToAPK) == entities.ExtensionAPK {
		if info, err := o.deps.ManifestReader.ReadManifest(p.OutputPath); err == nil {
			fields = append(fields,
				interfaces.F("package", info.PackageID),
				interfaces.F("version_code", info.VersionCode),
				interfaces.F("version_name", info.VersionName))
		} else {
			o.logger.Debug("Failed to read output manifest", interfaces.F("error", err.Error()))
		}
	}

	o.logger.Info("Signed artifact", fields...)
}

// publish cleans side files, collects every signed output and exports the path lists
func (o *ResignOrchestrator) publish(result *entities.PipelineResult) error {
	removed, err := o.deps.Collector.RemoveIdsig(o.config.OutputDir)
	if err != nil {
		return err
	}
	if len(removed) > 0 {
		o.logger.Debug("Removed idsig files", interfaces.F("files", removed))
	}

	apks, aabs, err := o.deps.Collector.FindSigned(o.config.OutputDir)
	if err != nil {
		return err
	}
	result.SignedAPKPaths = apks
	result.SignedAABPaths = aabs

	return o.deps.Exporter.Export(apks, aabs)
}
