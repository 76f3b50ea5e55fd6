package entities

// SigningCredentials holds the keystore inputs shared by every signer
type SigningCredentials struct {
	KeystorePath     string
	KeystorePassword string
	Alias            string
	AliasPassword    string
}

// Secrets returns the credential values that must never reach the logs
func (c SigningCredentials) Secrets() []string {
	return []string{c.KeystorePassword, c.AliasPassword}
}

// ManifestTarget holds optional manifest overrides; empty fields are left unchanged
type ManifestTarget struct {
	VersionCode string
	VersionName string
	PackageID   string
}

// IsEmpty reports whether no override is set
func (t *ManifestTarget) IsEmpty() bool {
	return t == nil || (t.VersionCode == "" && t.VersionName == "" && t.PackageID == "")
}

// PipelineConfig contains the run-wide pipeline settings
type PipelineConfig struct {
	ConvertAABToAPK   bool
	OutputDir         string
	TempDir           string
	BundletoolVersion string // concrete version, "latest" or empty
	EnvFilePath       string
	Verify            bool
}
