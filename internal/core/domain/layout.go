package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "fab.yaml"

	// DepsFileName is the default name of the dependency store file.
	DepsFileName = ".deps"

	// LockSuffix is appended to the store path to name its lock file.
	LockSuffix = ".lock"

	// DefaultTarget is run when no target is named and the config sets no default.
	DefaultTarget = "build"

	// DefaultDepth is the default recursion depth below each root.
	DefaultDepth = 100

	// DefaultIgnorePrefix hides version control and other dot directories.
	DefaultIgnorePrefix = "."

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultDepsPath returns the store path for a project rooted at root.
func DefaultDepsPath(root string) string {
	return filepath.Join(root, DepsFileName)
}

// LockPath returns the lock file path guarding the store at storePath.
func LockPath(storePath string) string {
	return storePath + LockSuffix
}
