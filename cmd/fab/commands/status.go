package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/fab/internal/app"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/ui/output"
	"go.trai.ch/fab/internal/ui/style"
	"golang.org/x/term"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [targets...]",
		Short: "Show which targets would run, without running anything",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			out := output.New(w)

			if listCommands, _ := cmd.Flags().GetBool("commands"); listCommands {
				statuses, err := c.app.Commands(cmd.Context(), options(cmd))
				if err != nil {
					return err
				}
				renderCommands(out, statuses, terminalWidth(w))
				return nil
			}

			statuses, err := c.app.Status(cmd.Context(), args, options(cmd))
			if err != nil {
				return err
			}
			renderTargets(out, statuses)
			return nil
		},
	}
	cmd.Flags().Bool("commands", false, "List every recorded command instead of targets")
	return cmd
}

func renderTargets(out *termenv.Output, statuses []app.TargetStatus) {
	width := 0
	for _, s := range statuses {
		width = max(width, lipgloss.Width(s.Name))
	}
	for _, s := range statuses {
		icon, state := freshness(out, s.Stale)
		_, _ = fmt.Fprintf(out, "%s %-*s  %s\n", icon, width, s.Name, state)
	}
}

// renderCommands prints one line per recorded command. Lines longer than
// width are cut; a width of zero means no limit.
func renderCommands(out *termenv.Output, statuses []domain.CommandStatus, width int) {
	if len(statuses) == 0 {
		_, _ = fmt.Fprintln(out, output.Paint(out, "no commands recorded", style.Slate))
		return
	}
	for _, s := range statuses {
		icon, state := freshness(out, s.Stale)
		counts := output.Paint(out, fmt.Sprintf("%3d in %3d out", s.Inputs, s.Outputs), style.Slate)
		prefix := fmt.Sprintf("%s %s  %s  ", icon, state, counts)
		_, _ = fmt.Fprintln(out, prefix+truncate(s.Command, width-lipgloss.Width(prefix)))
	}
}

func freshness(out *termenv.Output, stale bool) (string, string) {
	if stale {
		return output.Paint(out, style.Tilde, style.Yellow), output.Paint(out, "stale", style.Yellow)
	}
	return output.Paint(out, style.Check, style.Green), output.Paint(out, "fresh", style.Green)
}

// truncate cuts s to at most width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if lipgloss.Width(b.String()+string(r)) >= width {
			break
		}
		b.WriteRune(r)
	}
	return b.String() + "…"
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
