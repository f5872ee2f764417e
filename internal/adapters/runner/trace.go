// Package runner implements the dependency discovery strategies: tracing
// syscalls with strace, comparing access times, and running blind.
package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Runner = (*TraceRunner)(nil)

// TraceRunner runs commands under strace and reports the files they opened,
// statted, executed, created or renamed into place.
type TraceRunner struct {
	executor     ports.Executor
	roots        []string
	depth        int
	ignorePrefix string
	strace       string
}

// NewTraceRunner creates a TraceRunner using the strace binary at strace.
func NewTraceRunner(executor ports.Executor, settings domain.Settings, strace string) *TraceRunner {
	return &TraceRunner{
		executor:     executor,
		roots:        settings.Roots,
		depth:        settings.Depth,
		ignorePrefix: settings.IgnorePrefix,
		strace:       strace,
	}
}

// Kind reports the runner's strategy.
func (r *TraceRunner) Kind() domain.RunnerKind {
	return domain.RunnerTrace
}

// Run traces command through /bin/sh -c.
func (r *TraceRunner) Run(ctx context.Context, command string) (*domain.Discovery, error) {
	logFile, err := os.CreateTemp("", "fab-strace-")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create trace log")
	}
	logPath := logFile.Name()
	_ = logFile.Close()
	defer os.Remove(logPath) //nolint:errcheck // Best effort cleanup

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	inv := domain.Invocation{
		Args: []string{
			r.strace, "-f", "-o", logPath, "-e", "trace=file,process",
			"/bin/sh", "-c", command,
		},
		Label: command,
	}

	runErr := r.executor.Execute(ctx, inv)
	var execErr *domain.ExecutionError
	if runErr != nil && !errors.As(runErr, &execErr) {
		return nil, runErr
	}

	f, err := os.Open(logPath) //nolint:gosec // Path was created above
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open trace log")
	}
	defer f.Close() //nolint:errcheck // Read-only

	log, err := parseTrace(f, cwd)
	if err != nil {
		return nil, err
	}

	if log.killed {
		return nil, zerr.With(zerr.Wrap(domain.ErrTraceAborted, ""), "command", command)
	}

	if execErr != nil {
		if execErr.ExitCode < 0 && log.hasStatus {
			execErr.ExitCode = log.status
		}
		return nil, execErr
	}

	return r.discovery(log), nil
}

func (r *TraceRunner) discovery(log *traceLog) *domain.Discovery {
	deps := make(map[string]struct{})
	outputs := make(map[string]struct{})

	for _, a := range log.accesses {
		if !r.relevant(a.path) || !trackable(a.path) {
			continue
		}
		if a.output {
			outputs[a.path] = struct{}{}
		} else {
			deps[a.path] = struct{}{}
		}
	}

	return &domain.Discovery{
		Deps:    sortedKeys(deps),
		Outputs: sortedKeys(outputs),
	}
}

// relevant reports whether path lies within a root, outside any directory
// starting with the ignore prefix, and no deeper than the depth limit.
func (r *TraceRunner) relevant(path string) bool {
	for _, root := range r.roots {
		rest, ok := below(root, path)
		if !ok {
			continue
		}
		if r.ignorePrefix != "" && ignoredDir(rest, r.ignorePrefix) {
			continue
		}
		if strings.Count(rest, "/") > r.depth {
			continue
		}
		return true
	}
	return false
}

// below returns path relative to root, keeping the leading slash, when path
// is root itself or inside it.
func below(root, path string) (string, bool) {
	root = strings.TrimSuffix(root, "/")
	if path == root {
		return "", true
	}
	if !strings.HasPrefix(path, root+"/") {
		return "", false
	}
	return path[len(root):], true
}

func ignoredDir(rest, prefix string) bool {
	for _, part := range strings.Split(filepath.Dir(rest), "/") {
		if part != "" && strings.HasPrefix(part, prefix) {
			return true
		}
	}
	return false
}

// trackable accepts regular files, directories and paths that do not exist.
// Devices, sockets and dangling links are not.
func trackable(path string) bool {
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular() || info.IsDir()
	}
	_, lerr := os.Lstat(path)
	return errors.Is(lerr, os.ErrNotExist)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
