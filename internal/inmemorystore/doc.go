// Package inmemorystore provides a thread-safe, in-memory implementation
// of the world.World interface. It is suitable for development, testing,
// or any scenario where placed blocks do not need to be persisted.
package inmemorystore
