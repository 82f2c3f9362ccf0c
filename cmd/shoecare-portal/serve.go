package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"shoecare-portal/internal/config"
	"shoecare-portal/internal/credstore"
	"shoecare-portal/internal/device"
	"shoecare-portal/internal/logx"
	"shoecare-portal/internal/mdns"
	"shoecare-portal/internal/metrics"
	"shoecare-portal/internal/portal"
	"shoecare-portal/internal/wifi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the setup portal until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, closeStore, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	st, err := srv.Status(ctx)
	if err != nil {
		return err
	}
	logx.Log.Info().Str("device_id", st.Device.ID).Msg("device identity")
	if st.Provisioned {
		logx.Log.Info().Msg("device already provisioned; setup pages disabled until reset")
	}

	if cfg.MDNS {
		port, err := strconv.Atoi(cfg.Port)
		if err != nil {
			return fmt.Errorf("mdns: invalid port %q: %w", cfg.Port, err)
		}
		adv, err := mdns.Publish(cfg.MDNSName, port, "/", cfg.WifiInterface)
		if err != nil {
			logx.Log.Warn().Err(err).Msg("mdns disabled")
		}
		defer adv.Shutdown()
	}

	return srv.Run(ctx)
}

// newServer wires the portal from cfg. The returned func releases the
// credential store.
func newServer(ctx context.Context, cfg config.Config) (*portal.Server, func(), error) {
	id, err := device.LoadOrCreate(cfg.DevicePath(), device.InterfaceMAC(cfg.WifiInterface))
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var restarter portal.Restarter = portal.NopRestarter{}
	if cfg.RestartCommand != "" {
		restarter = portal.CommandRestarter{Command: cfg.RestartCommand}
	}

	srv := portal.NewServer(cfg, id, newScanner(cfg), store, restarter, metrics.New())
	return srv, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config) (credstore.Store, func(), error) {
	switch cfg.Store {
	case "redis":
		rs, err := credstore.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return credstore.NewFileStore(cfg.CredentialsPath()), func() {}, nil
	}
}

func newScanner(cfg config.Config) wifi.Scanner {
	if cfg.Scanner == "static" {
		networks := make(wifi.StaticScanner, 0, len(cfg.StaticNetworks))
		for _, ssid := range cfg.StaticNetworks {
			networks = append(networks, wifi.Network{SSID: ssid, Signal: 100, Security: "WPA2"})
		}
		return networks
	}
	return wifi.NewCachedScanner(wifi.NmcliScanner{Interface: cfg.WifiInterface}, cfg.ScanTTL)
}
