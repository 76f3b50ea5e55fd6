// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/android-resign/internal/domain/entities"
)

// TargetRepository provides the manifest overrides for a run
type TargetRepository interface {
	// GetPrimaryTarget returns the first configured target, or nil when none is configured
	GetPrimaryTarget(ctx context.Context) (*entities.ManifestTarget, error)
}
