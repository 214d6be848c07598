package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/livepush/internal/core/domain"
)

func (c *CLI) newRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run a local pub/sub relay for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			return c.app.Relay(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", domain.DefaultRelayAddr, "Address to listen on")
	return cmd
}

func (c *CLI) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Schema(cmd.Context())
		},
	}
}
