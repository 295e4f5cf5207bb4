package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/netproc/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults and environment overrides,
and report whether it is valid.

Examples:
  netproc validate /etc/netproc/netproc.yml
  netproc -c /etc/netproc/netproc.yml validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if len(args) == 1 {
			path = args[0]
		}
		return runValidate(path, cmd.OutOrStdout())
	},
}

func runValidate(path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("no config file given")
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(out, "INVALID: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "VALID: source=%s format=%s log=%s/%s\n",
		cfg.Capture.Source, cfg.Report.Format, cfg.Log.Level, cfg.Log.Format)
	return nil
}
