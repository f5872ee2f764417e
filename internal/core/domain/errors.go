package domain

import "go.trai.ch/zerr"

var (
	// ErrExecutionFailed is the sentinel every ExecutionError unwraps to.
	ErrExecutionFailed = zerr.New("command execution failed")

	// ErrTraceAborted is returned when a traced process was killed by a signal
	// before it produced a usable exit status.
	ErrTraceAborted = zerr.New("traced command was killed unexpectedly")

	// ErrStoreCorrupt is returned when the dependency store file cannot be trusted.
	ErrStoreCorrupt = zerr.New("dependency store is corrupt, delete it or run 'fab clean'")

	// ErrStoreLocked is returned when another process holds the dependency store.
	ErrStoreLocked = zerr.New("dependency store is in use by another fab process")

	// ErrStoreWriteFailed is returned when the dependency store cannot be persisted.
	ErrStoreWriteFailed = zerr.New("failed to write dependency store")

	// ErrStoreCreateFailed is returned when the dependency store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create dependency store directory")

	// ErrStoreMarshalFailed is returned when the dependency store cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal dependency store")

	// ErrRunnerUnavailable is returned when a forced runner fails its capability probe.
	ErrRunnerUnavailable = zerr.New("runner is not available on this system")

	// ErrUnknownRunner is returned for a runner name that is not one of auto, trace, atime or always.
	ErrUnknownRunner = zerr.New("unknown runner, expected 'auto', 'trace', 'atime' or 'always'")

	// ErrUnknownHasher is returned for a hasher name that is not one of md5, mtime or xxh64.
	ErrUnknownHasher = zerr.New("unknown hasher, expected 'md5', 'mtime' or 'xxh64'")

	// ErrInvalidDepth is returned when the recursion depth is less than one.
	ErrInvalidDepth = zerr.New("depth must be at least 1")

	// ErrSnapshotFailed is returned when a root cannot be walked for file times.
	ErrSnapshotFailed = zerr.New("failed to snapshot file times")

	// ErrTargetNotDefined is returned when a requested target is not in the registry.
	ErrTargetNotDefined = zerr.New("target not defined")

	// ErrMissingTarget is returned when a step references a target that doesn't exist.
	ErrMissingTarget = zerr.New("step references an unknown target")

	// ErrInvalidStep is returned when a step does not set exactly one action.
	ErrInvalidStep = zerr.New("step must set exactly one of 'run', 'call', 'group' or 'clean'")

	// ErrInvalidTargetName is returned when a target name contains invalid characters.
	ErrInvalidTargetName = zerr.New("invalid target name")

	// ErrCycleDetected is returned when targets call each other in a loop.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no fab.yaml exists in the cwd or its parents.
	ErrConfigNotFound = zerr.New("could not find fab.yaml")

	// ErrNoCommand is returned by exec when neither a command nor --clean was given.
	ErrNoCommand = zerr.New("no command given")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")
)
