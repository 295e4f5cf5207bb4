package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/tui"
)

var topFlags captureFlags

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show per-process traffic live",
	Long: `Run the capture pipeline and show the per-port, per-process table in
a terminal view refreshed every second. Press q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, &topFlags)
		if err != nil {
			return err
		}
		// Console log lines would tear the screen; the file appender still works.
		if err := log.InitTo(cfg.Log, io.Discard); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newSession(ctx, cfg, defaultDeps())
		if err != nil {
			return err
		}
		defer s.close(context.Background())

		captureCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			mu       sync.Mutex
			done     bool
			runErr   error
			finished = make(chan struct{})
		)
		go func() {
			defer close(finished)
			_, err := s.capture(captureCtx)
			mu.Lock()
			done, runErr = true, err
			mu.Unlock()
		}()

		iface := cfg.Capture.Interface
		if cfg.Capture.Source == config.SourceFile {
			iface = cfg.Capture.File
		}
		provider := func() tui.Snapshot {
			mu.Lock()
			defer mu.Unlock()
			return tui.Snapshot{
				Rows:      s.rows(),
				Stats:     s.proc.Stats(),
				Problems:  s.sink.Total(),
				Local:     s.identity.Primary().String(),
				Interface: iface,
				Done:      done,
				Err:       runErr,
			}
		}

		p := tea.NewProgram(tui.NewModel(provider, time.Second), tea.WithAltScreen(), tea.WithContext(ctx))
		_, uiErr := p.Run()

		cancel()
		<-finished

		if uiErr != nil && ctx.Err() == nil {
			return fmt.Errorf("live view failed: %w", uiErr)
		}
		return runErr
	},
}

func init() {
	topFlags.register(topCmd)
}
