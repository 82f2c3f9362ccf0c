package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shoecare-portal/internal/config"
	"shoecare-portal/internal/logx"
)

var (
	v   = viper.New()
	cfg config.Config
)

var Cmd = &cobra.Command{
	Use:           "shoecare-portal",
	Short:         "WiFi setup portal for the Smart Shoe Care machine",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		logx.Configure(cfg.LogLevel, cfg.LogConsole)
		return nil
	},
	RunE: runServe,
}

func init() {
	config.SetDefaults(v)
	if err := config.BindFlags(Cmd.PersistentFlags(), v); err != nil {
		panic(err)
	}
	Cmd.AddCommand(serveCmd, statusCmd, resetCmd)
}

func main() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
