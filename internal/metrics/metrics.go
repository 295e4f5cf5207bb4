// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesTotal counts frames handed to the dissector
	FramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netproc_frames_total",
			Help: "Total number of frames dissected",
		},
	)

	// ProblemsTotal counts diagnostic reports by reason
	ProblemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netproc_problems_total",
			Help: "Total number of per-frame problems reported",
		},
		[]string{"reason"},
	)

	// ClassifiedTotal counts classified frames by locality
	ClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netproc_classified_total",
			Help: "Total number of frames classified against the host identity",
		},
		[]string{"class"},
	)

	// AccountedBytesTotal counts bytes credited to local ports
	AccountedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netproc_accounted_bytes_total",
			Help: "Total number of bytes credited to local ports",
		},
		[]string{"direction"},
	)

	// ProcessMapSize tracks the number of ports attributed to a process
	ProcessMapSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netproc_process_map_size",
			Help: "Current number of local ports mapped to a process",
		},
	)
)

// Direction label values.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Direction returns the direction label for an accounting event.
func Direction(isSource bool) string {
	if isSource {
		return DirectionSent
	}
	return DirectionReceived
}
