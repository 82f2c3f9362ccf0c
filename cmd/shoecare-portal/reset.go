package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored network and reopen the setup pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, closeStore, err := newServer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := srv.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "setup reset")
		return nil
	},
}
