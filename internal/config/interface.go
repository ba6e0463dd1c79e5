package config

import (
	"context"
	"path/filepath"
	"strings"
)

// Loader is the interface for a format-specific definition loader.
type Loader interface {
	// Extensions lists the file suffixes the loader understands.
	Extensions() []string
	// Load reads one file and translates every object definition it holds
	// into the format-agnostic model.
	Load(ctx context.Context, path string) ([]*Definition, error)
}

// Loaders dispatches files to the loader registered for their extension.
type Loaders []Loader

// ForFile returns the loader handling path, if any.
func (ls Loaders) ForFile(path string) (Loader, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, l := range ls {
		for _, ext := range l.Extensions() {
			if strings.HasSuffix(name, ext) {
				return l, true
			}
		}
	}
	return nil, false
}

// Extensions returns the union of all loader extensions.
func (ls Loaders) Extensions() []string {
	var exts []string
	for _, l := range ls {
		exts = append(exts, l.Extensions()...)
	}
	return exts
}
