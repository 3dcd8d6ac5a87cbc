package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/netvis/internal/core"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List interfaces that can be captured on",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format := cfg.Output.Format
		if cmd.Flags().Changed("output") {
			format, _ = cmd.Flags().GetString("output")
		}
		return runDevices(liveOpener{}, format, cmd.OutOrStdout())
	},
}

func init() {
	devicesCmd.Flags().StringP("output", "o", "", "output format: text, json or yaml")
}

func runDevices(opener HandleOpener, format string, out io.Writer) error {
	devs, err := opener.Devices()
	if err != nil {
		return err
	}

	switch format {
	case "", "text":
		if len(devs) == 0 {
			fmt.Fprintln(out, "No capture devices found.")
			return nil
		}
		for _, d := range devs {
			fmt.Fprintf(out, "%-16s %s\n", d.Name, strings.Join(d.Addresses, ", "))
			if d.Description != "" {
				fmt.Fprintf(out, "%-16s %s\n", "", d.Description)
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(devs)
	case "yaml":
		return yaml.NewEncoder(out).Encode(devs)
	default:
		return fmt.Errorf("%w: output format %q", core.ErrConfigInvalid, format)
	}
}
