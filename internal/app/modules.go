package app

import (
	"github.com/specialistvlad/voxelforge/internal/builder"
	"github.com/specialistvlad/voxelforge/internal/registry"
)

// coreModules is the definitive list of all modules that are compiled into
// the voxelforge binary.
var coreModules = []registry.Module{
	builder.Module{},
}
