package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/report"
)

var runFlags captureFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Capture traffic and print per-process byte counts",
	Long: `Capture frames until the frame count is reached, the file ends or
SIGINT/SIGTERM is received, then print the per-port, per-process table.

Examples:
  netproc run -i eth0 -n 100
  netproc run -r trace.pcap --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &runFlags)
		if err != nil {
			return err
		}
		if err := log.Init(cfg.Log); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runCapture(ctx, cfg, defaultDeps(), cmd.OutOrStdout())
	},
}

func init() {
	runFlags.register(runCmd)
}

func runCapture(ctx context.Context, cfg *config.Config, deps sessionDeps, stdout io.Writer) error {
	reporter, err := report.New(cfg.Report.Format)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer s.close(context.Background())

	n, err := s.capture(ctx)
	if err != nil {
		return fmt.Errorf("capture failed after %d frames: %w", n, err)
	}

	st := s.proc.Stats()
	log.GetLogger().WithFields(map[string]interface{}{
		"frames":    st.Frames,
		"dropped":   st.Dropped,
		"anomalies": st.Anomalies,
		"events":    st.Events,
		"problems":  s.sink.Total(),
	}).Info("capture finished")

	fmt.Fprintln(stdout, "Capture complete.")

	out, closeOut, err := openOutput(cfg.Report.Output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	return reporter.Render(out, s.rows())
}

// openOutput returns stdout for "-" and a created file otherwise.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	return f, f.Close, nil
}
