package commands

import "github.com/spf13/cobra"

func (c *CLI) newURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url [dir]",
		Short: "Print the URL runtimes open to join a project's channel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.URL(cmd.Context(), dirArg(args))
		},
	}
}
