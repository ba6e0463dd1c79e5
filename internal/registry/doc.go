// Package registry maps the type names used in definitions to the Go
// constructors that build them.
//
// There are three tables: material setters, volumes (shared by shapes and
// conditions) and instructions. Modules fill them once during startup and
// they are read-only afterwards. Registering a name twice is a programming
// error and panics.
package registry
