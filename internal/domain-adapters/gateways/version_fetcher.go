package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
)

const (
	// DefaultGitHubAPIURL is the GitHub REST API base URL
	DefaultGitHubAPIURL = "https://api.github.com"
	// BundletoolRepository is the GitHub repository publishing bundletool releases
	BundletoolRepository = "google/bundletool"
)

// VersionFetcher resolves the latest release tag of a GitHub repository
type VersionFetcher struct {
	httpClient *http.Client
	baseURL    string
	repo       string
	token      string
	logger     interfaces.Logger
}

// NewVersionFetcher creates a fetcher for the latest bundletool release
func NewVersionFetcher(logger interfaces.Logger) *VersionFetcher {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	return &VersionFetcher{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Reasonable timeout for version checks
		},
		baseURL: DefaultGitHubAPIURL,
		repo:    BundletoolRepository,
		token:   token,
		logger:  interfaces.LoggerOrNoOp(logger),
	}
}

// GitHubRelease represents a GitHub release
type GitHubRelease struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// ResolveLatestVersion returns the latest release tag with any leading "v" removed
func (vf *VersionFetcher) ResolveLatestVersion(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(vf.baseURL, "/"), vf.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Add Accept header for GitHub API
	req.Header.Set("Accept", "application/vnd.github+json")
	if vf.token != "" {
		req.Header.Set("Authorization", "Bearer "+vf.token)
	}

	resp, err := vf.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GitHub API request failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if err := vf.checkRateLimit(resp); err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("GitHub API error %d (failed to read response)", resp.StatusCode)
		}
		return "", fmt.Errorf("GitHub API error %d: %s", resp.StatusCode, string(body))
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to parse GitHub response: %w", err)
	}

	if release.Draft {
		return "", fmt.Errorf("latest release is a draft")
	}

	version := strings.TrimPrefix(strings.TrimSpace(release.TagName), "v")
	if version == "" {
		return "", fmt.Errorf("latest release of %s has no tag", vf.repo)
	}

	vf.logger.Debug("Resolved latest release", interfaces.F("repo", vf.repo), interfaces.F("version", version))
	return version, nil
}

// checkRateLimit turns an exhausted GitHub rate limit into an explicit error
func (vf *VersionFetcher) checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	remainingInt, err := strconv.Atoi(remaining)
	if err != nil {
		return nil
	}

	if remainingInt == 0 {
		if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			resetAt := time.Unix(resetUnix, 0)
			return fmt.Errorf("GitHub API rate limit exceeded (0 remaining), resets at %s", resetAt.Format(time.RFC3339))
		}
		return fmt.Errorf("GitHub API rate limit exceeded (0 remaining)")
	}

	if remainingInt <= 10 {
		vf.logger.Warn("GitHub API rate limit low", interfaces.F("remaining", remainingInt))
	}

	return nil
}
