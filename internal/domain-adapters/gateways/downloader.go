package gateways

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/android-resign/internal/domain/interfaces"
)

// userAgent identifies downloads made by the resign step
const userAgent = "android-resign/1.0"

// Downloader handles downloading artifacts and tools from URLs
type Downloader struct {
	httpClient *http.Client
	logger     interfaces.Logger
}

// NewDownloader creates a new downloader
func NewDownloader(logger interfaces.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: 15 * time.Minute, // Long timeout for large bundles
		},
		logger: interfaces.LoggerOrNoOp(logger),
	}
}

// BundletoolJarName returns the cached jar file name for version
func BundletoolJarName(version string) string {
	return fmt.Sprintf("bundletool-all-%s.jar", version)
}

// BundletoolDownloadURL returns the GitHub release asset URL for version
func BundletoolDownloadURL(version string) string {
	return fmt.Sprintf("https://github.com/google/bundletool/releases/download/%s/%s", version, BundletoolJarName(version))
}

// DownloadFile downloads url to dest. The file appears at dest only once complete.
func (d *Downloader) DownloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".part-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		//nolint:errcheck,gosec // G104: leftover partial file is removed best effort
		os.Remove(tmpPath)
	}()

	written, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	d.logger.Info("Downloaded file",
		interfaces.F("file", filepath.Base(dest)),
		interfaces.F("bytes", written))

	return nil
}
