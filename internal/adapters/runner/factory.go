package runner

import (
	"context"
	"os/exec"

	"go.trai.ch/fab/internal/adapters/fs"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RunnerFactory = (*Factory)(nil)

// Factory probes the system for the discovery strategies it supports.
type Factory struct {
	executor        ports.Executor
	lookPath        func(file string) (string, error)
	atimesSupported func(dir string) bool
}

// NewFactory creates a Factory running probes and commands through executor.
func NewFactory(executor ports.Executor) *Factory {
	return &Factory{
		executor:        executor,
		lookPath:        exec.LookPath,
		atimesSupported: fs.AtimesSupported,
	}
}

// Resolve returns the runner selected by settings.Runner. A forced runner
// that fails its probe is an error; auto prefers trace, then atime, then
// always.
func (f *Factory) Resolve(ctx context.Context, settings domain.Settings) (ports.Runner, error) {
	switch settings.Runner {
	case domain.RunnerTrace:
		strace, ok := f.probeTrace(ctx)
		if !ok {
			return nil, unavailable(domain.RunnerTrace)
		}
		return NewTraceRunner(f.executor, settings, strace), nil

	case domain.RunnerAtime:
		if !f.probeAtime(settings.Roots) {
			return nil, unavailable(domain.RunnerAtime)
		}
		return NewAtimeRunner(f.executor, settings), nil

	case domain.RunnerAlways:
		return NewAlwaysRunner(f.executor), nil

	case domain.RunnerAuto, "":
		if strace, ok := f.probeTrace(ctx); ok {
			return NewTraceRunner(f.executor, settings, strace), nil
		}
		if f.probeAtime(settings.Roots) {
			return NewAtimeRunner(f.executor, settings), nil
		}
		return NewAlwaysRunner(f.executor), nil
	}

	return nil, zerr.With(zerr.Wrap(domain.ErrUnknownRunner, ""), "runner", string(settings.Runner))
}

// probeTrace finds strace and checks that it may actually trace, which
// fails in containers without ptrace permission.
func (f *Factory) probeTrace(ctx context.Context) (string, bool) {
	strace, err := f.lookPath("strace")
	if err != nil {
		return "", false
	}

	err = f.executor.Execute(ctx, domain.Invocation{
		Args:    []string{strace, "-f", "-o", "/dev/null", "/bin/true"},
		Label:   "strace probe",
		Capture: true,
	})
	return strace, err == nil
}

// probeAtime only checks the top of each root. A subdirectory mounted from
// a filesystem without atimes goes unnoticed.
func (f *Factory) probeAtime(roots []string) bool {
	if len(roots) == 0 {
		return false
	}
	for _, root := range roots {
		if !f.atimesSupported(root) {
			return false
		}
	}
	return true
}

func unavailable(kind domain.RunnerKind) error {
	return zerr.With(zerr.Wrap(domain.ErrRunnerUnavailable, ""), "runner", string(kind))
}
