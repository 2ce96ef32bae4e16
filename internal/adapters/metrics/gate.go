package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hwchain/hwchain-cli/internal/domain"
	"github.com/hwchain/hwchain-cli/internal/usecase"
)

const namespace = "hwchain"

// GateCollector records gate listener metrics on its own registry
type GateCollector struct {
	registry *prometheus.Registry

	received   prometheus.Counter
	dropped    prometheus.Counter
	duplicates prometheus.Counter
	handled    *prometheus.CounterVec
	queueDepth prometheus.Gauge
	lastBlock  prometheus.Gauge
}

// NewGateCollector creates the gate metrics together with the Go runtime
// and process collectors
func NewGateCollector() *GateCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &GateCollector{
		registry: reg,
		received: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "pulses_received_total",
			Help:      "GatePulse events decoded from the chain",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "pulses_dropped_total",
			Help:      "GatePulse events dropped because the queue was full",
		}),
		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "pulses_duplicate_total",
			Help:      "GatePulse events skipped as already seen",
		}),
		handled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "pulses_handled_total",
			Help:      "GatePulse events handled by the worker",
		}, []string{"kind"}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "queue_depth",
			Help:      "Pulses waiting for the worker",
		}),
		lastBlock: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "last_block",
			Help:      "Last block scanned for GatePulse events",
		}),
	}
}

// Gatherer exposes the registry to the HTTP handler
func (c *GateCollector) Gatherer() prometheus.Gatherer {
	return c.registry
}

func (c *GateCollector) PulseReceived()  { c.received.Inc() }
func (c *GateCollector) PulseDropped()   { c.dropped.Inc() }
func (c *GateCollector) PulseDuplicate() { c.duplicates.Inc() }

func (c *GateCollector) PulseHandled(kind domain.PulseKind) {
	c.handled.WithLabelValues(string(kind)).Inc()
}

func (c *GateCollector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

func (c *GateCollector) SetLastBlock(block uint64) {
	c.lastBlock.Set(float64(block))
}

// Ensure the collector implements the interface
var _ usecase.GateMetrics = (*GateCollector)(nil)
