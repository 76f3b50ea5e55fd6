package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ochairo/android-resign/internal/config"
	"github.com/ochairo/android-resign/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/android-resign/internal/domain-orchestrators"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	gw "github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	"github.com/ochairo/android-resign/internal/domain/services"
	"github.com/ochairo/android-resign/internal/errors"
	"github.com/ochairo/android-resign/internal/external-adapters/androidsdk"
	"github.com/ochairo/android-resign/internal/external-adapters/apk"
	"github.com/ochairo/android-resign/internal/external-adapters/yaml"
	zlog "github.com/ochairo/android-resign/internal/external-adapters/zerolog"
	"github.com/ochairo/android-resign/internal/logging"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	Verify bool
	// DotenvFiles overrides the .env files loaded before reading the environment.
	DotenvFiles []string
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "verify every signed output with jarsigner")
	cmd.Flags().StringSliceVar(&opts.DotenvFiles, "env-file", nil, "dotenv files to load (default .env)")
}

// AddRunCommand adds the run subcommand.
func AddRunCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Re-sign the configured artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), flags, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addRunFlags(cmd, opts)
	root.AddCommand(cmd)
}

// newLogger builds the run logger tagged with a fresh run id
func newLogger(flags *GlobalFlags, console io.Writer, masker *logging.SecretMasker) (*zlog.Logger, io.Closer, error) {
	logger, closer, err := zlog.Build(zlog.Options{
		Verbose: flags.Verbose,
		Quiet:   flags.Quiet,
		Format:  flags.LogFormat,
		LogFile: flags.LogFile,
		Console: console,
		Masker:  masker,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(interfaces.F("run_id", uuid.NewString())), closer, nil
}

// runPipeline loads configuration, wires the gateways and re-signs every input artifact
func runPipeline(ctx context.Context, flags *GlobalFlags, opts *runOptions, stdout, stderr io.Writer) error {
	masker := logging.NewSecretMasker()
	logger, closer, err := newLogger(flags, stderr, masker)
	if err != nil {
		return err
	}
	//nolint:errcheck // Defer close on log file
	defer closer.Close()

	zl := logger.Zerolog()
	ctx = zl.WithContext(ctx)

	cfg, err := config.Load(ctx, opts.DotenvFiles...)
	if err != nil {
		return err
	}
	if cfg.Skip() {
		logger.Warn(config.KeyKeystorePath + " is not provided. Skipping step.")
		return nil
	}
	masker.Add(cfg.Credentials.Secrets()...)

	if cfg.ArtifactURL != "" {
		if cfg.ArtifactFilename == "" {
			return errors.Missing(config.KeyArtifactFilename)
		}
		logger.Info("Downloading artifact", interfaces.F("file", cfg.ArtifactFilename))
		if err := gateways.NewDownloader(logger).DownloadFile(ctx, cfg.ArtifactURL, cfg.ArtifactFilename); err != nil {
			return errors.Wrap(err, "failed to download artifact")
		}
	}

	orch, err := wireOrchestrator(cfg, opts.Verify, stdout, masker, logger)
	if err != nil {
		return err
	}

	result, err := orch.Run(ctx, services.SplitArtifactPaths(cfg.ArtifactFilename))
	if err != nil {
		logger.Error("Resign failed", interfaces.F("error", err.Error()))
		return err
	}

	logger.Info("Signed artifacts published",
		interfaces.F("apks", len(result.SignedAPKPaths)),
		interfaces.F("aabs", len(result.SignedAABPaths)))
	return nil
}

// toolchain holds the build-tools binaries used by a run
type toolchain struct {
	dir       string
	aapt      string
	apksigner string
	zipalign  string
}

func resolveToolchain(locator gw.BuildToolsLocator) (*toolchain, error) {
	dir, err := locator.LatestBuildToolsDir()
	if err != nil {
		return nil, err
	}

	tc := &toolchain{dir: dir}
	for name, dest := range map[string]*string{
		"aapt":      &tc.aapt,
		"apksigner": &tc.apksigner,
		"zipalign":  &tc.zipalign,
	} {
		path, err := locator.ToolPath(name)
		if err != nil {
			return nil, err
		}
		*dest = path
	}
	return tc, nil
}

// wireOrchestrator connects the production gateways for one run
func wireOrchestrator(
	cfg *config.Config,
	verify bool,
	stdout io.Writer,
	masker *logging.SecretMasker,
	logger interfaces.Logger,
) (*orchestrators.ResignOrchestrator, error) {
	sdkTools, err := androidsdk.NewBuildTools(cfg.AndroidHome)
	if err != nil {
		return nil, err
	}
	tools, err := resolveToolchain(sdkTools)
	if err != nil {
		return nil, err
	}
	logger.Info("Using build-tools", interfaces.F("dir", tools.dir))

	helper, err := gateways.DefaultManifestChangerPath()
	if err != nil {
		return nil, err
	}

	runner := gateways.NewProcessRunner(stdout, masker, logger)
	pipeline := cfg.Pipeline(verify)

	deps := orchestrators.ResignDependencies{
		Stager:          gateways.NewWorkspace(cfg.TempDir),
		Targets:         yaml.NewTargetRepository(cfg.TargetsPath, logger),
		ManifestUpdater: gateways.NewManifestChanger(runner, helper, tools.dir, logger),
		Inspector:       gateways.NewAapt(runner, tools.aapt, logger),
		Converter: gateways.NewBundletool(runner, gateways.NewDownloader(logger), gateways.NewVersionFetcher(logger),
			gateways.BundletoolConfig{TempDir: cfg.TempDir, Version: cfg.BundletoolVersion}, logger),
		ApkSigner:      gateways.NewApkSigner(runner, tools.apksigner, logger),
		JarSigner:      gateways.NewJarSigner(runner, "", logger),
		Aligner:        gateways.NewZipalign(runner, tools.zipalign),
		Verifier:       gateways.NewVerifier(runner, "", apk.NewSignatureVerifier(), logger),
		Collector:      gateways.NewArtifactFinder(),
		Exporter:       gateways.NewEnvExporter(cfg.EnvFilePath, logger),
		Checksums:      gateways.NewChecksumVerifier(),
		ManifestReader: apk.NewManifestReader(logger),
		Logger:         logger,
	}

	return orchestrators.NewResignOrchestrator(deps, cfg.Credentials, pipeline), nil
}
