package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/fab/internal/core/domain"
)

func (c *CLI) newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [flags] -- <command line>",
		Short: "Run a single command line only if its dependencies changed",
		Long: `Run a single command line only if its dependencies changed.

The arguments are joined with spaces and run through /bin/sh. fab exits
with the command's status.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.app.Exec(cmd.Context(), args, options(cmd))
			if errors.Is(err, domain.ErrNoCommand) {
				_ = cmd.Usage()
				return &domain.ExitStatus{Code: 1}
			}
			return err
		},
	}
}
