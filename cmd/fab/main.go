// Package main is the entry point for the fab build tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/fab/cmd/fab/commands"
	"go.trai.ch/fab/internal/app"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	_ "go.trai.ch/fab/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// logFormatEnv switches error and warning output to JSON when set to "json".
const logFormatEnv = "FAB_LOG_FORMAT"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	configureLogger(components.Logger, stderr)
	components.App.WithStderr(stderr)

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		return exitCode(err, stderr, components.Logger)
	}
	return 0
}

type configurableLogger interface {
	SetOutput(w io.Writer)
	SetJSON(enabled bool)
}

func configureLogger(log ports.Logger, stderr io.Writer) {
	l, ok := log.(configurableLogger)
	if !ok {
		return
	}
	l.SetOutput(stderr)
	l.SetJSON(os.Getenv(logFormatEnv) == "json")
}

// exitCode reports err and maps it to the process status. A failed command
// passes its own status through; a memoized status is not logged at all.
func exitCode(err error, stderr io.Writer, log ports.Logger) int {
	var status *domain.ExitStatus
	if errors.As(err, &status) {
		return clampStatus(status.Code)
	}

	app.ReportFailure(stderr, err)
	log.Error(err)

	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return clampStatus(execErr.ExitCode)
	}
	return 1
}

func clampStatus(code int) int {
	if code <= 0 || code > 255 {
		return 1
	}
	return code
}
