package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/voxelforge/internal/catalog"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
)

// LoadDefinitions loads every object under the definitions path into a new
// catalog generation. Individual failures are kept on the generation.
func (a *App) LoadDefinitions(ctx context.Context) (*catalog.Generation, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading definitions...", "definitions_path", a.config.DefinitionsPath)

	gen, err := a.catalog.LoadAll(ctx, a.config.DefinitionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}

	logger.Info("Definitions loaded.", "objects", gen.Len(), "failures", len(gen.Failures), "generation", gen.ID.String())
	return gen, nil
}
