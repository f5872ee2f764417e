// export_test.go exports private functions for white-box testing.
package runner

import (
	"io"
	"time"
)

// Access mirrors access for tests.
type Access = access

var ParseTrace = func(r io.Reader, cwd string) ([]Access, int, bool, bool, error) {
	log, err := parseTrace(r, cwd)
	if err != nil {
		return nil, 0, false, false, err
	}
	return log.accesses, log.status, log.hasStatus, log.killed, nil
}

// NewAccess builds an Access.
func NewAccess(path string, output bool) Access {
	return access{path: path, output: output}
}

// SetProbes replaces the system probes of f.
func (f *Factory) SetProbes(lookPath func(string) (string, error), atimes func(string) bool) {
	f.lookPath = lookPath
	f.atimesSupported = atimes
}

// SetClock replaces the clock of r.
func (r *AtimeRunner) SetClock(now func() time.Time) {
	r.now = now
}

// Relevant exposes the path filter of r.
func (r *TraceRunner) Relevant(path string) bool {
	return r.relevant(path)
}
