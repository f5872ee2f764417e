// Package shell provides the executor that runs build commands.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// tailSize bounds how much output is kept for error reports.
const tailSize = 64 << 10

// ptyStdoutFd is the child descriptor that becomes its controlling terminal.
const ptyStdoutFd = 1

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates an Executor streaming to stdout and stderr.
// Nil writers default to the process's own.
func NewExecutor(stdout, stderr io.Writer) *Executor {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Executor{stdin: os.Stdin, stdout: stdout, stderr: stderr}
}

// WithStdin sets what streamed commands read as standard input.
// This is primarily used for testing.
func (e *Executor) WithStdin(r io.Reader) *Executor {
	e.stdin = r
	return e
}

// Execute runs the invocation and waits for it to complete.
//
// Streamed output goes through a pty when stdout is a terminal, so that
// tools keep their colours. Otherwise plain pipes are used. Captured
// output is never written anywhere and comes back in the ExecutionError.
func (e *Executor) Execute(ctx context.Context, inv domain.Invocation) error {
	if len(inv.Args) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...) //nolint:gosec // user provided command
	cmd.Dir = inv.Dir

	tail := &tailBuffer{limit: tailSize}

	var err error
	switch {
	case inv.Capture:
		cmd.Stdout = tail
		cmd.Stderr = tail
		err = run(cmd)
	case isTerminal(e.stdout):
		cmd.Stdin = e.stdin
		err = runPTY(cmd, io.MultiWriter(e.stdout, tail), e.stdout.(*os.File))
	default:
		cmd.Stdin = e.stdin
		cmd.Stdout = io.MultiWriter(e.stdout, tail)
		cmd.Stderr = io.MultiWriter(e.stderr, tail)
		err = run(cmd)
	}

	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.With(zerr.Wrap(err, "failed to start command"), "command", inv.Label)
	}

	return &domain.ExecutionError{
		Command:  inv.Label,
		Output:   tail.String(),
		ExitCode: exitErr.ExitCode(),
		Streamed: !inv.Capture,
	}
}

func run(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Wait()
}

// runPTY attaches the child's stdout and stderr to a new pty. A stdin set
// on cmd is kept, so the child still reads the user's terminal; the pty is
// made the controlling terminal through stdout instead.
func runPTY(cmd *exec.Cmd, out io.Writer, term *os.File) error {
	size, sizeErr := pty.GetsizeFull(term)
	if sizeErr != nil {
		size = nil
	}
	ptmx, err := pty.StartWithAttrs(cmd, size, &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    ptyStdoutFd,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// The read ends with EIO once the child side closes.
		_, _ = io.Copy(out, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
