package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored network and whether setup has completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, closeStore, err := newServer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		st, err := srv.Status(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "device:      %s\n", st.Device.ID)
		fmt.Fprintf(out, "pairing:     %s\n", st.Device.PairingCode)
		fmt.Fprintf(out, "provisioned: %t\n", st.Provisioned)
		if st.Credentials == nil {
			fmt.Fprintln(out, "network:     (none)")
			return nil
		}
		fmt.Fprintf(out, "network:     %s\n", st.Credentials.SSID)
		fmt.Fprintf(out, "id:          %s\n", st.Credentials.ID)
		fmt.Fprintf(out, "saved at:    %s\n", st.Credentials.SavedAt.Format(time.RFC3339))
		return nil
	},
}
