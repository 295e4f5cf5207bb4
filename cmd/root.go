// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/netproc/internal/config"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netproc",
	Short: "netproc - process-wise network traffic accounting",
	Long: `netproc watches Ethernet/IPv4 traffic and credits the bytes of every
TCP and UDP datagram to the local port that sent or received it, then
attributes each port to the process owning it.

Sources:
  - live:     libpcap capture on a network device
  - afpacket: TPACKET_V3 ring on Linux
  - file:     pcap / pcapng replay`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults and NETPROC_* env vars when empty)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(validateCmd)
}

// captureFlags are the per-command overrides of the capture section.
type captureFlags struct {
	iface  string
	file   string
	count  int
	source string
	format string
}

func (f *captureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.iface, "interface", "i", "", "network device to capture on")
	cmd.Flags().StringVarP(&f.file, "file", "r", "", "read frames from a pcap/pcapng file")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "stop after this many frames (0 = unlimited)")
	cmd.Flags().StringVar(&f.source, "source", "", "capture source: live, afpacket or file")
	cmd.Flags().StringVar(&f.format, "format", "", "report format: table, json or yaml")
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f *captureFlags) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Capture.Interface = f.iface
	}
	if flags.Changed("file") {
		cfg.Capture.File = f.file
		if !flags.Changed("source") {
			cfg.Capture.Source = config.SourceFile
		}
	}
	if flags.Changed("count") {
		cfg.Capture.Count = f.count
	}
	if flags.Changed("source") {
		cfg.Capture.Source = f.source
	}
	if flags.Changed("format") {
		cfg.Report.Format = f.format
	}

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}
