package ports

import "go.trai.ch/fab/internal/core/domain"

// DependencyStore persists the dependency record of every command.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DependencyStore interface {
	// Get returns the record of command, if any.
	Get(command string) (domain.Record, bool, error)
	// Put replaces the record of command.
	Put(command string, record domain.Record) error
	// Records returns every record in the store.
	Records() (map[string]domain.Record, error)
	// Path is the on-disk location of the store.
	Path() string
	// Flush writes the store to disk. It is a no-op when nothing was loaded
	// or the store was discarded.
	Flush() error
	// Discard drops the in-memory state so that no later Flush writes it.
	Discard()
	// Close flushes the store and releases its lock.
	Close() error
}

// StoreOpener opens the dependency store at a path.
type StoreOpener interface {
	Open(path string) (DependencyStore, error)
}
