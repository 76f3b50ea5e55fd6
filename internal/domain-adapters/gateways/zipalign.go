package gateways

import (
	"context"
	"fmt"

	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
)

// alignment is the byte boundary for uncompressed entries
const alignment = "4"

// Zipalign aligns archives with the build-tools zipalign
type Zipalign struct {
	runner gateways.CommandRunner
	tool   string
}

// NewZipalign creates a zipalign gateway; tool is the zipalign executable path
func NewZipalign(runner gateways.CommandRunner, tool string) *Zipalign {
	if tool == "" {
		tool = "zipalign"
	}
	return &Zipalign{runner: runner, tool: tool}
}

// Align writes an aligned copy of in to out, overwriting out
func (z *Zipalign) Align(ctx context.Context, in, out string) error {
	if _, err := z.runner.Run(ctx, gateways.Command{
		Name:        z.tool,
		Args:        []string{"-f", alignment, in, out},
		Description: "zipalign",
	}); err != nil {
		return fmt.Errorf("failed to align %s: %w", in, err)
	}
	return nil
}
