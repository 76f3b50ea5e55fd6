// Package config loads the step inputs from the environment into an immutable Config.
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/errors"
)

// Environment keys read by the step.
const (
	KeyKeystorePath      = "AC_ANDROID_KEYSTORE_PATH"
	KeyKeystorePassword  = "AC_ANDROID_KEYSTORE_PASSWORD"
	KeyAlias             = "AC_ANDROID_ALIAS"
	KeyAliasPassword     = "AC_ANDROID_ALIAS_PASSWORD"
	KeyArtifactURL       = "AC_RESIGN_APK_URL"
	KeyArtifactFilename  = "AC_RESIGN_FILENAME"
	KeyOutputDir         = "AC_OUTPUT_DIR"
	KeyAndroidHome       = "ANDROID_HOME"
	KeyTempDir           = "AC_TEMP_DIR"
	KeyEnvFilePath       = "AC_ENV_FILE_PATH"
	KeyConvertAABToAPK   = "AC_CONVERT_AAB_TO_APK"
	KeyBundletoolVersion = "AC_BUNDLETOOL_VERSION"
	KeyResignTargets     = "AC_RESIGN_TARGETS"
)

// Keys lists every key the step reads.
func Keys() []string {
	return []string{
		KeyKeystorePath, KeyKeystorePassword, KeyAlias, KeyAliasPassword,
		KeyArtifactURL, KeyArtifactFilename, KeyOutputDir, KeyAndroidHome,
		KeyTempDir, KeyEnvFilePath, KeyConvertAABToAPK, KeyBundletoolVersion,
		KeyResignTargets,
	}
}

// Config holds every input of a resign run. It is built once and never mutated.
type Config struct {
	Credentials       entities.SigningCredentials
	ArtifactURL       string
	ArtifactFilename  string // single path or "|"-joined batch
	OutputDir         string
	AndroidHome       string
	TempDir           string
	EnvFilePath       string
	ConvertAABToAPK   bool
	BundletoolVersion string
	TargetsPath       string
}

// Skip reports whether the step has nothing to do because no keystore was provided.
func (c *Config) Skip() bool {
	return c.Credentials.KeystorePath == ""
}

// Pipeline returns the run-wide pipeline settings.
func (c *Config) Pipeline(verify bool) entities.PipelineConfig {
	return entities.PipelineConfig{
		ConvertAABToAPK:   c.ConvertAABToAPK,
		OutputDir:         c.OutputDir,
		TempDir:           c.TempDir,
		BundletoolVersion: c.BundletoolVersion,
		EnvFilePath:       c.EnvFilePath,
		Verify:            verify,
	}
}

// newViperInstance creates a viper instance that resolves keys from the environment.
func newViperInstance() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// Load reads dotenv files (".env" when none are given) and then the environment.
// Dotenv values never override variables that are already set.
//
// When the keystore path is absent the returned Config only has Skip() == true;
// the remaining required keys are not checked.
func Load(ctx context.Context, dotenvFiles ...string) (*Config, error) {
	if err := loadDotenv(dotenvFiles); err != nil {
		return nil, err
	}

	cfg, err := FromViper(newViperInstance())
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Bool("skip", cfg.Skip()).
		Str("output_dir", cfg.OutputDir).
		Str("temp_dir", cfg.TempDir).
		Bool("convert_aab_to_apk", cfg.ConvertAABToAPK).
		Str("bundletool_version", cfg.BundletoolVersion).
		Msg("configuration loaded")

	return cfg, nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Wrap(err, "failed to load "+f)
		}
	}
	return nil
}

// FromViper builds a Config from an already configured viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := &Config{
		Credentials: entities.SigningCredentials{
			KeystorePath: get(KeyKeystorePath),
		},
		ArtifactURL:       get(KeyArtifactURL),
		ArtifactFilename:  get(KeyArtifactFilename),
		ConvertAABToAPK:   get(KeyConvertAABToAPK) == "true",
		BundletoolVersion: get(KeyBundletoolVersion),
		TargetsPath:       get(KeyResignTargets),
	}
	if cfg.Skip() {
		return cfg, nil
	}

	required := []struct {
		key  string
		dest *string
	}{
		{KeyOutputDir, &cfg.OutputDir},
		{KeyKeystorePassword, &cfg.Credentials.KeystorePassword},
		{KeyAlias, &cfg.Credentials.Alias},
		{KeyAliasPassword, &cfg.Credentials.AliasPassword},
		{KeyAndroidHome, &cfg.AndroidHome},
		{KeyTempDir, &cfg.TempDir},
		{KeyEnvFilePath, &cfg.EnvFilePath},
	}
	for _, r := range required {
		// passwords are taken verbatim
		value := v.GetString(r.key)
		if strings.TrimSpace(value) == "" {
			return nil, errors.Missing(r.key)
		}
		if !strings.Contains(strings.ToLower(r.key), "password") {
			value = strings.TrimSpace(value)
		}
		*r.dest = value
	}

	return cfg, nil
}
