package gateways

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/ochairo/android-resign/internal/domain/entities"
)

// Workspace owns the scratch directory where artifacts are mutated
type Workspace struct {
	tempDir string
}

// NewWorkspace creates a workspace rooted at tempDir
func NewWorkspace(tempDir string) *Workspace {
	return &Workspace{tempDir: tempDir}
}

// Dir returns the scratch directory
func (w *Workspace) Dir() string {
	return w.tempDir
}

// Stage copies sourcePath into the scratch directory and returns its descriptor
func (w *Workspace) Stage(sourcePath string) (entities.ArtifactDescriptor, error) {
	descriptor := entities.NewArtifactDescriptor(sourcePath, w.tempDir)

	if err := os.MkdirAll(w.tempDir, 0750); err != nil {
		return descriptor, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if err := CopyFile(sourcePath, descriptor.WorkingPath); err != nil {
		return descriptor, fmt.Errorf("failed to stage %s: %w", sourcePath, err)
	}

	return descriptor, nil
}

// CopyFile copies src to dst, replacing dst
func CopyFile(src, dst string) error {
	//nolint:gosec // G304: src is an artifact path from the step configuration
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	if srcInfo, err := in.Stat(); err == nil {
		if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("source and destination are the same file: %s", dst)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	//nolint:gosec // G304: dst is derived from configured directories
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		//nolint:errcheck,gosec // G104: already failing
		out.Close()
		return fmt.Errorf("failed to copy: %w", err)
	}

	return out.Close()
}

// MoveFile renames src to dst, falling back to copy and remove across devices
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("failed to move %s: %w", src, err)
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
