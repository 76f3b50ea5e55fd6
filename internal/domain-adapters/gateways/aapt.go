package gateways

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	"github.com/ochairo/android-resign/internal/domain/services"
)

// signatureDir is the archive directory holding JAR signature material
const signatureDir = "META-INF"

// Aapt inspects and edits archive entries with the build-tools aapt binary
type Aapt struct {
	runner gateways.CommandRunner
	tool   string
	logger interfaces.Logger
}

// NewAapt creates an aapt gateway; tool is the aapt executable path
func NewAapt(runner gateways.CommandRunner, tool string, logger interfaces.Logger) *Aapt {
	if tool == "" {
		tool = "aapt"
	}
	return &Aapt{runner: runner, tool: tool, logger: interfaces.LoggerOrNoOp(logger)}
}

// ListSignatureEntries returns the archive entries located under META-INF, in listing order
func (a *Aapt) ListSignatureEntries(ctx context.Context, path string) (entities.SignatureEntrySet, error) {
	result, err := a.runner.Run(ctx, gateways.Command{
		Name:        a.tool,
		Args:        []string{"ls", path},
		Description: "list archive entries",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", path, err)
	}

	var entries entities.SignatureEntrySet
	scanner := bufio.NewScanner(strings.NewReader(result.Stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, signatureDir) {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entry listing: %w", err)
	}

	return entries, nil
}

// Unsign removes the signing files among entries from the archive at path
func (a *Aapt) Unsign(ctx context.Context, path string, entries entities.SignatureEntrySet) error {
	files := services.SigningFiles(entries)
	if len(files) == 0 {
		a.logger.Info("No signing files to remove", interfaces.F("path", path))
		return nil
	}

	a.logger.Info("Removing existing signature", interfaces.F("path", path), interfaces.F("files", files))
	if _, err := a.runner.Run(ctx, gateways.Command{
		Name:        a.tool,
		Args:        append([]string{"remove", path}, files...),
		Description: "remove signing files",
	}); err != nil {
		return fmt.Errorf("failed to unsign %s: %w", path, err)
	}

	return nil
}
