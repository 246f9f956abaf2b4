package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vpnaas"

const (
	labelBackend  = "backend"
	labelResource = "resource"
	labelKind     = "kind"
	labelSpace    = "space"
)

// Collector holds the control plane metrics.
type Collector struct {
	// Validations counts validation runs per backend and resource.
	Validations *prometheus.CounterVec

	// ValidationFailures counts rejected inputs by failure kind.
	ValidationFailures *prometheus.CounterVec

	// IDsAllocated counts device ids handed out per id space.
	IDsAllocated *prometheus.CounterVec

	// IDSpaceExhausted counts allocations that found no free id.
	IDSpaceExhausted *prometheus.CounterVec

	// Mappings tracks the number of stored identifier mappings.
	Mappings prometheus.Gauge
}

// NewCollector creates a Collector registered against reg. If reg is nil,
// prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "runs_total",
			Help:      "Total validation runs.",
		}, []string{labelBackend, labelResource}),

		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "failures_total",
			Help:      "Total inputs rejected by validation.",
		}, []string{labelBackend, labelResource, labelKind}),

		IDsAllocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapping",
			Name:      "ids_allocated_total",
			Help:      "Total device ids allocated.",
		}, []string{labelSpace}),

		IDSpaceExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mapping",
			Name:      "id_space_exhausted_total",
			Help:      "Total allocations that failed because the id space was full.",
		}, []string{labelSpace}),

		Mappings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mapping",
			Name:      "mappings",
			Help:      "Number of stored identifier mappings.",
		}),
	}

	reg.MustRegister(
		c.Validations,
		c.ValidationFailures,
		c.IDsAllocated,
		c.IDSpaceExhausted,
		c.Mappings,
	)
	return c
}

func (c *Collector) IncValidation(backend, resource string) {
	c.Validations.WithLabelValues(backend, resource).Inc()
}

func (c *Collector) IncValidationFailure(backend, resource, kind string) {
	c.ValidationFailures.WithLabelValues(backend, resource, kind).Inc()
}

func (c *Collector) IncIDAllocated(space string) {
	c.IDsAllocated.WithLabelValues(space).Inc()
}

func (c *Collector) IncIDSpaceExhausted(space string) {
	c.IDSpaceExhausted.WithLabelValues(space).Inc()
}

func (c *Collector) SetMappings(n int) {
	c.Mappings.Set(float64(n))
}
