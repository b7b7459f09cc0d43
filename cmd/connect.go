package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var connectConfigFlag string

var connectCmd = &cobra.Command{
	Use:          "connect",
	Short:        "Join the configured network once and print the assigned address",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(connectConfigFlag)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		manager, netStack, err := createConnectionManager(cfg, nil)
		if err != nil {
			return err
		}
		defer netStack.Close()

		connected := manager.Connect(ctx)
		fmt.Printf("State: %s\nAddress: %s\n", manager.State(), manager.Address())
		if !connected {
			return fmt.Errorf("failed to connect to %s", cfg.Network.SSID)
		}
		return nil
	},
}

func init() {
	connectCmd.Flags().StringVarP(&connectConfigFlag, "config", "f", "", "Path to config file (YAML)")
	if err := connectCmd.MarkFlagRequired("config"); err != nil {
		panic(err) // This should never happen during initialization
	}
	rootCmd.AddCommand(connectCmd)
}
