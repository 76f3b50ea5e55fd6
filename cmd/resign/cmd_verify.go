package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/android-resign/internal/domain-adapters/gateways"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/external-adapters/apk"
	"github.com/ochairo/android-resign/internal/logging"
)

// AddVerifyCommand adds the verify subcommand.
func AddVerifyCommand(root *cobra.Command, flags *GlobalFlags) {
	var jarsigner string

	cmd := &cobra.Command{
		Use:   "verify <artifact>...",
		Short: "Check that APK or AAB files are signed",
		Long: `verify runs "jarsigner -verify" on each artifact. APKs that carry only
APK Signature Scheme v2/v3 blocks are checked natively.`,
		Example: `  resign verify build/app-ac-signed.apk
  resign verify out/app-ac-signed.apk out/app-ac-signed.aab`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			masker := logging.NewSecretMasker()
			logger, closer, err := newLogger(flags, cmd.ErrOrStderr(), masker)
			if err != nil {
				return err
			}
			//nolint:errcheck // Defer close on log file
			defer closer.Close()

			runner := gateways.NewProcessRunner(cmd.OutOrStdout(), masker, logger)
			verifier := gateways.NewVerifier(runner, jarsigner, apk.NewSignatureVerifier(), logger)

			var failed int
			for _, path := range args {
				if err := verifier.Verify(cmd.Context(), path); err != nil {
					logger.Error("Verification failed", interfaces.F("path", path), interfaces.F("error", err.Error()))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d artifacts failed verification", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jarsigner, "jarsigner", "", "path to jarsigner (default: from PATH)")
	root.AddCommand(cmd)
}
