package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	zlog "github.com/ochairo/android-resign/internal/external-adapters/zerolog"
)

// Exit codes for the CLI.
const (
	ExitSuccess = 0
	ExitError   = 1
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	Verbose   bool
	Quiet     bool
	LogFormat string
	LogFile   string
}

// ValidLogFormats returns the accepted --log-format values.
func ValidLogFormats() []string {
	return []string{zlog.FormatAuto, zlog.FormatConsole, zlog.FormatJSON}
}

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "only log warnings and errors")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", zlog.FormatAuto, "log format (auto|console|json)")
	cmd.PersistentFlags().StringVar(&flags.LogFile, "log-file", "", "also write JSON logs to a rotating file")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// newRootCmd creates the root command. Invoked without a subcommand it runs the pipeline.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "resign",
		Short: "Re-sign Android APK and AAB artifacts",
		Long: `resign strips existing signatures from Android artifacts and signs them again
with the configured keystore.

Inputs are read from AC_* environment variables (a .env file in the working
directory is loaded first). Signed artifacts are published to the env file as
AC_SIGNED_APK_PATH and AC_SIGNED_AAB_PATH.`,
		Version: formatVersion(info),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(ValidLogFormats(), flags.LogFormat) {
				return fmt.Errorf("invalid --log-format %q: must be one of %v", flags.LogFormat, ValidLogFormats())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd.Context(), flags, run, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)
	addRunFlags(cmd, run)

	AddRunCommand(cmd, flags)
	AddVerifyCommand(cmd, flags)
	AddVersionCommand(cmd, info)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}

// AddVersionCommand adds the version subcommand.
func AddVersionCommand(root *cobra.Command, info BuildInfo) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "resign %s\n", formatVersion(info))
		},
	})
}
