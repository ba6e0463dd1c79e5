package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a definition file.
type fileRoot struct {
	Objects []*objectBlock `hcl:"object,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type objectBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses one HCL file and translates each object block into a
// definition.
func (l *Loader) Load(ctx context.Context, path string) ([]*config.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	defs := make([]*config.Definition, 0, len(root.Objects))
	for _, obj := range root.Objects {
		body, ok := obj.Body.(*hclsyntax.Body)
		if !ok {
			return nil, fmt.Errorf("object %q in %s: unsupported HCL body %T", obj.Name, path, obj.Body)
		}
		section := config.NewSection("")
		t := &translator{src: file.Bytes}
		if err := t.body(section, body); err != nil {
			return nil, fmt.Errorf("object %q in %s: %w", obj.Name, path, err)
		}
		defs = append(defs, &config.Definition{Name: obj.Name, Source: path, Root: section})
	}

	logger.Debug("HCL loading complete.", "path", path, "objects", len(defs))
	return defs, nil
}
