// Package diag reports per-frame problems. Nothing reported here stops the
// capture loop.
package diag

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"firestige.xyz/netproc/internal/core"
	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/metrics"
)

// Sink receives per-frame problems stamped with the frame timestamp.
type Sink interface {
	ReportProblem(ts time.Time, reason error)
}

// reasonOther labels errors that are not a *core.Problem.
const reasonOther = "other"

// LogSink logs problems and keeps a count per reason. Informational
// problems (unhandled protocols) are logged at debug level, defects at warn.
type LogSink struct {
	logger log.Logger

	mu     sync.Mutex
	counts map[string]uint64
}

// NewLogSink creates a LogSink. A nil logger uses the process logger.
func NewLogSink(logger log.Logger) *LogSink {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &LogSink{
		logger: logger.WithField("component", "diag"),
		counts: make(map[string]uint64),
	}
}

// ReportProblem implements Sink.
func (s *LogSink) ReportProblem(ts time.Time, reason error) {
	if reason == nil {
		return
	}

	label := reasonOther
	informational := false
	var p *core.Problem
	if errors.As(reason, &p) {
		label = p.Reason.String()
		informational = p.Informational()
	}

	s.mu.Lock()
	s.counts[label]++
	s.mu.Unlock()
	metrics.ProblemsTotal.WithLabelValues(label).Inc()

	entry := s.logger.WithFields(map[string]interface{}{
		"ts":     FormatTimestamp(ts),
		"reason": label,
	})
	if informational {
		entry.Debug(reason.Error())
		return
	}
	entry.Warn(reason.Error())
}

// Count returns how many problems with the given reason label were reported.
func (s *LogSink) Count(reason string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[reason]
}

// Counts returns a copy of all per-reason counts.
func (s *LogSink) Counts() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uint64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Total returns the number of problems reported, informational included.
func (s *LogSink) Total() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for _, v := range s.counts {
		n += v
	}
	return n
}

// FormatTimestamp renders ts as seconds.microseconds since the epoch.
func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "0.000000"
	}
	return fmt.Sprintf("%d.%06d", ts.Unix(), ts.Nanosecond()/int(time.Microsecond))
}

// Discard is a Sink that drops every report.
var Discard Sink = discard{}

type discard struct{}

func (discard) ReportProblem(time.Time, error) {}
