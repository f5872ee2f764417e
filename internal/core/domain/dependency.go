package domain

import (
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// FormatVersion is the dependency store layout this build understands.
// Stores written with any other version are discarded on load.
const FormatVersion = 1

// FormatVersionKey is the reserved store key holding the format version.
const FormatVersionKey = ".format_version"

// Direction tells whether a command read or wrote a path.
type Direction uint8

const (
	// Input marks a path the command depended on.
	Input Direction = iota
	// Output marks a path the command produced.
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Entry is a single fingerprinted path in a Record.
type Entry struct {
	Direction   Direction
	Fingerprint string
}

// Tag renders the entry the way it is persisted: "input-<fp>" or "output-<fp>".
func (e Entry) Tag() string {
	return e.Direction.String() + "-" + e.Fingerprint
}

// ParseTag is the inverse of Entry.Tag. Anything without a known prefix is corrupt.
func ParseTag(tag string) (Entry, error) {
	kind, fp, ok := strings.Cut(tag, "-")
	if ok {
		switch kind {
		case "input":
			return Entry{Direction: Input, Fingerprint: fp}, nil
		case "output":
			return Entry{Direction: Output, Fingerprint: fp}, nil
		}
	}
	return Entry{}, zerr.With(zerr.Wrap(ErrStoreCorrupt, "unrecognized entry tag"), "tag", tag)
}

// Record maps an absolute path to the entry observed on a command's last successful run.
type Record map[string]Entry

// Paths returns the record's paths with the given direction, sorted.
func (r Record) Paths(d Direction) []string {
	paths := make([]string, 0, len(r))
	for path, entry := range r {
		if entry.Direction == d {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return paths
}

// Discovery is what a runner observed while executing a command.
// A nil *Discovery means nothing could be observed.
type Discovery struct {
	Deps    []string
	Outputs []string
}

// FileTimes holds the access and modification time of a file.
type FileTimes struct {
	Atime time.Time
	Mtime time.Time
}

// FileSnapshot maps absolute paths of regular files to their times.
type FileSnapshot map[string]FileTimes

// CleanReport lists what autoclean removed and what it could not.
type CleanReport struct {
	Removed []string
	Failed  map[string]error
}

// CommandStatus summarises a recorded command for status listings.
type CommandStatus struct {
	Command string
	Stale   bool
	Inputs  int
	Outputs int
}
