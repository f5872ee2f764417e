// Package commands implements the CLI commands for the fab build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/fab/internal/app"
	"go.trai.ch/fab/internal/build"
	"go.trai.ch/fab/internal/core/domain"
)

// CLI represents the command line interface for fab.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targets []string, opts app.Options) error
	Exec(ctx context.Context, args []string, opts app.Options) error
	Clean(ctx context.Context, opts app.Options) (domain.CleanReport, error)
	Status(ctx context.Context, targets []string, opts app.Options) ([]app.TargetStatus, error)
	Commands(ctx context.Context, opts app.Options) ([]domain.CommandStatus, error)
	Watch(ctx context.Context, targets []string, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "fab",
		Short:         "Rebuild only what changed, with dependencies found automatically",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.BoolP("time", "t", false, "Use file modification times instead of MD5 sums")
	flags.StringArrayP("dir", "d", nil, "Add DIR to the list of relevant directories (repeatable)")
	flags.BoolP("clean", "c", false, "Autoclean build outputs before running")
	flags.BoolP("quiet", "q", false, "Don't echo commands, only print errors")
	flags.Int("depth", domain.DefaultDepth, "How deep below each root to look for touched files")
	flags.String("ignore-prefix", domain.DefaultIgnorePrefix, "Ignore directories whose name starts with this prefix")
	flags.String("deps-file", domain.DepsFileName, "Dependency store file")
	flags.String("runner", string(domain.RunnerAuto), "Dependency discovery: auto, trace, atime or always")
	flags.String("hasher", string(domain.HasherMD5), "Fingerprint: md5, mtime or xxh64")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newExecCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options collects the persistent flags. Value flags are only passed on when
// given explicitly so fab.yaml keeps precedence over flag defaults.
func options(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()

	var opts app.Options
	opts.Time, _ = flags.GetBool("time")
	opts.Dirs, _ = flags.GetStringArray("dir")
	opts.Clean, _ = flags.GetBool("clean")

	if flags.Changed("quiet") {
		quiet, _ := flags.GetBool("quiet")
		opts.Quiet = &quiet
	}
	if flags.Changed("depth") {
		depth, _ := flags.GetInt("depth")
		opts.Depth = &depth
	}
	opts.IgnorePrefix = changedString(cmd, "ignore-prefix")
	opts.DepsFile = changedString(cmd, "deps-file")
	opts.Runner = changedString(cmd, "runner")
	opts.Hasher = changedString(cmd, "hasher")
	return opts
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}
