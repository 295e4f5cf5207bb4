package cmd

import (
	"context"
	"fmt"
	"sync"

	"firestige.xyz/netproc/internal/accounting"
	"firestige.xyz/netproc/internal/config"
	"firestige.xyz/netproc/internal/core"
	"firestige.xyz/netproc/internal/diag"
	"firestige.xyz/netproc/internal/engine"
	"firestige.xyz/netproc/internal/identity"
	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/metrics"
	"firestige.xyz/netproc/internal/process"
	"firestige.xyz/netproc/internal/report"
	"firestige.xyz/netproc/internal/source"
)

// session wires one capture run: identity, process map, source, processor
// and the optional metrics server.
type session struct {
	cfg      *config.Config
	identity core.Identity
	table    *accounting.Table
	procs    *process.Map
	sink     *diag.LogSink
	proc     *engine.Processor
	src      source.Source
	metrics  *metrics.Server

	wg sync.WaitGroup
}

// sessionDeps are the collaborators tests replace.
type sessionDeps struct {
	resolveIdentity func(config.IdentityConfig) (core.Identity, error)
	processResolver process.Resolver
	openSource      func(config.CaptureConfig) (source.Source, error)
}

func defaultDeps() sessionDeps {
	return sessionDeps{
		resolveIdentity: identity.Resolve,
		processResolver: process.NewGopsutilResolver(),
		openSource:      source.Open,
	}
}

func newSession(ctx context.Context, cfg *config.Config, deps sessionDeps) (*session, error) {
	id, err := deps.resolveIdentity(cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve local address: %w", err)
	}

	s := &session{
		cfg:      cfg,
		identity: id,
		table:    accounting.NewTable(),
		procs:    process.NewMap(deps.processResolver, cfg.Process.TTL),
		sink:     diag.NewLogSink(nil),
	}

	if cfg.Process.Enabled {
		if err := s.procs.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("failed to get process mapping: %w", err)
		}
	}

	s.proc = engine.NewProcessor(id, s.table, engine.WithSink(s.sink))

	s.src, err = deps.openSource(cfg.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture source: %w", err)
	}

	if cfg.Metrics.Enabled {
		s.metrics = metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := s.metrics.Start(ctx); err != nil {
			s.src.Close()
			return nil, err
		}
	}

	log.GetLogger().WithFields(map[string]interface{}{
		"local":    id.Primary().String(),
		"loopback": id.Loopback.String(),
		"ports":    s.procs.Len(),
	}).Info("session ready")
	return s, nil
}

// capture runs the capture loop, refreshing the process map alongside it.
func (s *session) capture(ctx context.Context) (int, error) {
	if s.cfg.Process.Enabled {
		refreshCtx, cancel := context.WithCancel(ctx)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.procs.Run(refreshCtx, s.cfg.Process.RefreshInterval)
		}()
		defer func() {
			cancel()
			s.wg.Wait()
		}()
	}
	return engine.Run(ctx, s.src, s.proc, s.cfg.Capture.Count)
}

func (s *session) rows() []report.Row {
	return report.BuildRows(s.table.Snapshot(), s.procs.Lookup, s.cfg.Report.Sort)
}

func (s *session) close(ctx context.Context) {
	if s.metrics != nil {
		if err := s.metrics.Stop(ctx); err != nil {
			log.GetLogger().WithError(err).Warn("metrics server stop failed")
		}
	}
	if s.src != nil {
		s.src.Close()
	}
}
