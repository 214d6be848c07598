package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/livepush/internal/app"
)

func (c *CLI) newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [dir]",
		Short: "Watch a project and push every change to connected runtimes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			channel, _ := cmd.Flags().GetString("channel")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Start(cmd.Context(), dirArg(args), app.StartOptions{
				OutputMode: outputMode,
				Channel:    channel,
			})
		},
	}
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().StringP("channel", "c", "", "Channel to push to instead of the configured or a random one")
	return cmd
}
