package ports

import "go.trai.ch/fab/internal/core/domain"

// Hasher fingerprints a file's current state.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Kind reports which strategy the hasher implements.
	Kind() domain.HasherKind
	// Hash returns the fingerprint of path. ok is false when the path is
	// missing or unreadable; that is never an error.
	Hash(path string) (fingerprint string, ok bool)
}

// HasherFactory resolves a Hasher by kind.
type HasherFactory interface {
	For(kind domain.HasherKind) (Hasher, error)
}
