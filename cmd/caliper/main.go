package main

import (
	"os"

	"github.com/Tap30/caliper-go/adapters"
	"github.com/Tap30/caliper-go/internal/config"
	"github.com/spf13/cobra"
)

var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "caliper",
		Short:         "Build, compare and ship Caliper events",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading CALIPER_* variables (default .env)")

	rootCmd.AddCommand(newExampleCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newReceiveCmd())
	return rootCmd
}

func loadConfig() (*config.Config, adapters.LoggerAdapter, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, adapters.NewPrintLoggerAdapter(adapters.ParseLogLevel(cfg.LogLevel)), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
