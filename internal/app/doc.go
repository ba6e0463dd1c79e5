// Package app contains the core application logic. It wires the registry,
// the object catalog, the world backend and the placement notifier, and
// runs one command against them, decoupled from any specific entrypoint
// like a CLI or server.
package app
