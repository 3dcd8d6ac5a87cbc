// Package cmd implements the netvis CLI using cobra.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/netvis/internal/config"
)

// Version is overridden at build time with -ldflags.
var Version = "0.1.0"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "netvis",
	Short: "netvis - capture and dissect live network traffic",
	Long: `netvis captures frames from a network interface, dissects them
(Ethernet, ARP, IPv4, TCP, UDP, HTTP, RTP, RTCP, SDP) and reports a one-line
summary per packet plus traffic statistics for the whole capture.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults plus NETVIS_* env when empty)")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the persistent --config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
