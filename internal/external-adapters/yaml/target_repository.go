package yaml

import (
	"context"
	"fmt"
	"os"

	"github.com/ochairo/android-resign/internal/domain/entities"
	"github.com/ochairo/android-resign/internal/domain/interfaces"
)

// TargetRepository implements repositories.TargetRepository on top of a targets file
type TargetRepository struct {
	path   string
	parser *TargetParser
	logger interfaces.Logger
}

// NewTargetRepository creates a repository for the file at path; an empty path means no targets
func NewTargetRepository(path string, logger interfaces.Logger) *TargetRepository {
	return &TargetRepository{
		path:   path,
		parser: NewTargetParser(),
		logger: interfaces.LoggerOrNoOp(logger),
	}
}

// GetPrimaryTarget returns the first target of the file.
// Later targets are ignored: only one manifest rewrite happens per run.
func (r *TargetRepository) GetPrimaryTarget(_ context.Context) (*entities.ManifestTarget, error) {
	if r.path == "" {
		return nil, nil
	}

	if _, err := os.Stat(r.path); err != nil {
		return nil, fmt.Errorf("targets file not readable: %w", err)
	}

	targets, err := r.parser.ParseFile(r.path)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, nil
	}
	if len(targets) > 1 {
		r.logger.Warn("Multiple resign targets found, only the first one is applied",
			interfaces.F("count", len(targets)))
	}

	target := targets[0]
	return &target, nil
}
