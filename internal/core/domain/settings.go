package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// HasherKind names a fingerprinting strategy.
type HasherKind string

const (
	// HasherMD5 fingerprints file content with MD5.
	HasherMD5 HasherKind = "md5"
	// HasherMtime fingerprints the modification time.
	HasherMtime HasherKind = "mtime"
	// HasherXXH64 fingerprints file content with xxhash64.
	HasherXXH64 HasherKind = "xxh64"
)

// ParseHasherKind validates a hasher name.
func ParseHasherKind(s string) (HasherKind, error) {
	switch k := HasherKind(s); k {
	case HasherMD5, HasherMtime, HasherXXH64:
		return k, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownHasher, ""), "hasher", s)
}

// RunnerKind names one of the dependency discovery strategies.
type RunnerKind string

const (
	// RunnerAuto probes trace, then atime, then falls back to always.
	RunnerAuto RunnerKind = "auto"
	// RunnerTrace observes syscalls with strace.
	RunnerTrace RunnerKind = "trace"
	// RunnerAtime compares file access times before and after the command.
	RunnerAtime RunnerKind = "atime"
	// RunnerAlways runs the command without observing anything.
	RunnerAlways RunnerKind = "always"
)

// ParseRunnerKind validates a runner name.
func ParseRunnerKind(s string) (RunnerKind, error) {
	switch k := RunnerKind(s); k {
	case RunnerAuto, RunnerTrace, RunnerAtime, RunnerAlways:
		return k, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownRunner, ""), "runner", s)
}

// Settings configures a Builder for its whole lifetime.
type Settings struct {
	// Roots are the absolute directories searched for touched files.
	Roots []string
	// Depth bounds recursion below each root. 1 means the root's own files only.
	Depth int
	// IgnorePrefix excludes directories whose name starts with it.
	IgnorePrefix string
	// Hasher selects the fingerprint strategy.
	Hasher HasherKind
	// DepsFile is the absolute path of the dependency store.
	DepsFile string
	// Runner selects or forces the discovery strategy.
	Runner RunnerKind
	// Quiet suppresses echoed commands and deleting lines. Command output
	// is never hidden.
	Quiet bool
	// MetricsFile, when set, receives build metrics in Prometheus text format.
	MetricsFile string
	// TraceFile, when set, receives one span per executed command.
	TraceFile string
}

// DefaultSettings returns the settings used for a project rooted at root.
func DefaultSettings(root string) Settings {
	return Settings{
		Roots:        []string{root},
		Depth:        DefaultDepth,
		IgnorePrefix: DefaultIgnorePrefix,
		Hasher:       HasherMD5,
		DepsFile:     DefaultDepsPath(root),
		Runner:       RunnerAuto,
	}
}

// Validate checks the invariants a Builder relies on.
func (s Settings) Validate() error {
	if s.Depth < 1 {
		return zerr.With(zerr.Wrap(ErrInvalidDepth, ""), "depth", s.Depth)
	}
	if _, err := ParseHasherKind(string(s.Hasher)); err != nil {
		return err
	}
	if _, err := ParseRunnerKind(string(s.Runner)); err != nil {
		return err
	}
	for _, root := range s.Roots {
		if !filepath.IsAbs(root) {
			return zerr.With(zerr.New("root must be absolute"), "root", root)
		}
	}
	return nil
}
