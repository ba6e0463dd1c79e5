// Package config defines the format-agnostic definition model for placeable
// objects, along with the Loader interface implemented by the format
// adapters (hcl_adapter, yaml_adapter).
//
// A Definition is a named tree of Sections. The builder package consumes
// only this model; it never sees HCL or YAML directly.
package config
