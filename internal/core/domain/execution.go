package domain

import (
	"fmt"
	"strings"
)

// ExecutionError reports a command that exited non-zero or was killed.
type ExecutionError struct {
	// Command is the command line as the user wrote it.
	Command string
	// Output is the tail of what the command printed, if it was captured.
	Output string
	// ExitCode is the process status, -1 when it could not be determined.
	ExitCode int
	// Streamed is true when Output already reached the terminal.
	Streamed bool
}

func (e *ExecutionError) Error() string {
	name := e.Command
	if fields := strings.Fields(name); len(fields) > 0 {
		name = fields[0]
	}
	return fmt.Sprintf("command %q terminated with exit status %d", name, e.ExitCode)
}

// Unwrap lets errors.Is match ErrExecutionFailed.
func (e *ExecutionError) Unwrap() error {
	return ErrExecutionFailed
}

// ExitStatus carries a memoized non-zero status up to main without logging it.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Invocation describes a process for the executor to run.
type Invocation struct {
	// Args is the argv of the process. Args[0] is looked up on PATH.
	Args []string
	// Dir is the working directory, empty for the current one.
	Dir string
	// Label is the command line reported in errors.
	Label string
	// Capture buffers output instead of streaming it to the terminal. Only
	// probes set it; build commands always run with native standard I/O.
	Capture bool
}

// ShellInvocation runs command through /bin/sh -c with its output streamed.
func ShellInvocation(command string) Invocation {
	return Invocation{
		Args:  []string{"/bin/sh", "-c", command},
		Label: command,
	}
}
