// Package engine glues dissection, classification and accounting together
// and drives them from a packet source.
package engine

import (
	"sync/atomic"

	"firestige.xyz/netproc/internal/accounting"
	"firestige.xyz/netproc/internal/classify"
	"firestige.xyz/netproc/internal/core"
	"firestige.xyz/netproc/internal/core/decoder"
	"firestige.xyz/netproc/internal/diag"
	"firestige.xyz/netproc/internal/log"
	"firestige.xyz/netproc/internal/metrics"
)

// Result describes what happened to one frame.
type Result struct {
	Dissection core.Dissection
	Class      core.Classification
	Events     int   // accountant calls made
	Err        error // hard problem, frame dropped
}

// Stats are cumulative processor counters.
type Stats struct {
	Frames    uint64 `json:"frames"`
	Dropped   uint64 `json:"dropped"`
	Anomalies uint64 `json:"anomalies"`
	NoMatch   uint64 `json:"no_match"`
	Events    uint64 `json:"events"`
}

// Processor runs a frame through the decoder, the classifier and the
// emitter. Its only cross-frame state is the read-only identity and the
// counters.
type Processor struct {
	decoder    decoder.Decoder
	classifier *classify.Classifier
	emitter    *accounting.Emitter
	sink       diag.Sink
	logger     log.Logger

	frames    atomic.Uint64
	dropped   atomic.Uint64
	anomalies atomic.Uint64
	noMatch   atomic.Uint64
	events    atomic.Uint64
}

// Option configures a Processor.
type Option func(*Processor)

// WithSink sets the diagnostic sink. Defaults to a LogSink.
func WithSink(sink diag.Sink) Option {
	return func(p *Processor) { p.sink = sink }
}

// WithLogger sets the logger used for per-frame debug output.
func WithLogger(logger log.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithDecoder replaces the frame decoder.
func WithDecoder(d decoder.Decoder) Option {
	return func(p *Processor) { p.decoder = d }
}

// NewProcessor creates a Processor crediting acc for traffic of identity.
func NewProcessor(identity core.Identity, acc accounting.Accountant, opts ...Option) *Processor {
	p := &Processor{
		decoder:    decoder.NewDissector(),
		classifier: classify.NewClassifier(identity),
		emitter:    accounting.NewEmitter(meteredAccountant{next: acc}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLogger()
	}
	p.logger = p.logger.WithField("component", "engine")
	if p.sink == nil {
		p.sink = diag.NewLogSink(p.logger)
	}
	return p
}

// Identity returns the identity frames are classified against.
func (p *Processor) Identity() core.Identity {
	return p.classifier.Identity()
}

// Process handles a single frame. It never panics on malformed input and
// never retains frame.Data.
func (p *Processor) Process(frame core.Frame) Result {
	p.frames.Add(1)
	metrics.FramesTotal.Inc()

	d, err := p.decoder.Dissect(frame)
	if err != nil {
		p.dropped.Add(1)
		p.sink.ReportProblem(frame.Timestamp, err)
		return Result{Dissection: d, Err: err}
	}

	class := p.classifier.Classify(d.IP.SrcIP, d.IP.DstIP)
	metrics.ClassifiedTotal.WithLabelValues(class.String()).Inc()

	if p.logger.IsDebugEnabled() {
		p.logger.WithFields(map[string]interface{}{
			"from":     d.IP.SrcIP.String(),
			"to":       d.IP.DstIP.String(),
			"protocol": decoder.ProtocolName(d.IP.Protocol),
			"class":    class.String(),
		}).Debug("frame")
	}

	if d.Anomaly != nil {
		p.anomalies.Add(1)
		p.sink.ReportProblem(frame.Timestamp, d.Anomaly)
	}

	res := Result{Dissection: d, Class: class}
	if !d.Accountable() {
		return res
	}

	if class == core.NoneLocal {
		p.noMatch.Add(1)
		p.logger.WithFields(map[string]interface{}{
			"src_port": d.Transport.SrcPort,
			"dst_port": d.Transport.DstPort,
		}).Debug("no match")
		return res
	}

	res.Events = p.emitter.Emit(class, d.Transport.SrcPort, d.Transport.DstPort, d.ByteCount)
	p.events.Add(uint64(res.Events))
	return res
}

// Stats returns a snapshot of the counters. Safe to call from any goroutine.
func (p *Processor) Stats() Stats {
	return Stats{
		Frames:    p.frames.Load(),
		Dropped:   p.dropped.Load(),
		Anomalies: p.anomalies.Load(),
		NoMatch:   p.noMatch.Load(),
		Events:    p.events.Load(),
	}
}

// meteredAccountant counts credited bytes per direction before forwarding.
type meteredAccountant struct {
	next accounting.Accountant
}

func (m meteredAccountant) AccountBytes(port string, bytes int, isSource bool) {
	metrics.AccountedBytesTotal.WithLabelValues(metrics.Direction(isSource)).Add(float64(bytes))
	m.next.AccountBytes(port, bytes, isSource)
}
