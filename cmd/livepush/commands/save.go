package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/livepush/internal/app"
)

func (c *CLI) newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [dir]",
		Short: "Save a project and print its URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, _ := cmd.Flags().GetBool("draft")
			return c.app.Save(cmd.Context(), dirArg(args), app.SaveOptions{Draft: draft})
		},
	}
	cmd.Flags().Bool("draft", false, "Save as a draft")
	return cmd
}

func (c *CLI) newDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download [dir]",
		Short: "Save a project and print where its archive can be downloaded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Download(cmd.Context(), dirArg(args))
		},
	}
}

func (c *CLI) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [dir]",
		Short: "List the saves made from this machine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.History(cmd.Context(), dirArg(args))
		},
	}
}
