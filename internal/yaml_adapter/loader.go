// Package yaml_adapter reads object definitions written in YAML.
//
// A file holds one or more documents, each describing one object. The
// object name comes from the top-level "name" key, or from the file name
// when the key is absent. Mapping key order is preserved.
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load parses every document of the file at path.
func (l *Loader) Load(ctx context.Context, path string) ([]*config.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var defs []*config.Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 0; ; i++ {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse yaml %s: %w", path, err)
		}
		def, err := translate(&doc, path)
		if err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", path, i+1, err)
		}
		if def != nil {
			defs = append(defs, def)
		}
	}

	logger.Debug("YAML loading complete.", "path", path, "objects", len(defs))
	return defs, nil
}

// translate converts one document. Empty documents yield nil.
func translate(doc *yaml.Node, path string) (*config.Definition, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	top := doc.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return nil, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping at the top level", top.Line)
	}

	def := &config.Definition{Source: path, Root: config.NewSection("")}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		if key.Value == "name" {
			if value.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: name must be a string", value.Line)
			}
			def.Name = value.Value
			continue
		}
		if err := add(def.Root, key, value); err != nil {
			return nil, err
		}
	}
	if def.Name == "" {
		base := filepath.Base(path)
		def.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return def, nil
}

func add(s *config.Section, key, value *yaml.Node) error {
	if key.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: keys must be scalars", key.Line)
	}
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}

	switch value.Kind {
	case yaml.MappingNode:
		child, err := s.AddSection(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		for i := 0; i+1 < len(value.Content); i += 2 {
			if err := add(child, value.Content[i], value.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list items of %q must be scalars", n.Line, s.KeyPath(key.Value))
			}
			items = append(items, n.Value)
		}
		if err := s.SetList(key.Value, items); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return fmt.Errorf("line %d: %q has no value", value.Line, s.KeyPath(key.Value))
		}
		if err := s.SetScalar(key.Value, value.Value); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported value for %q", value.Line, s.KeyPath(key.Value))
	}
}
