package cmd

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"firestige.xyz/netproc/internal/source"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := source.Devices()
		if err != nil {
			return err
		}
		renderDevices(cmd.OutOrStdout(), devices)
		return nil
	},
}

func renderDevices(w io.Writer, devices []source.Device) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Description", "Addresses"})
	for _, d := range devices {
		desc := d.Description
		if d.Loopback {
			desc = strings.TrimSpace(desc + " (loopback)")
		}
		table.Append([]string{d.Name, desc, strings.Join(d.Addresses, ", ")})
	}
	table.Render()
}
