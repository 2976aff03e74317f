package catalog

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Reset reasons reported on torch_catalog_resets_total.
const (
	resetVersion = "version"
	resetForced  = "forced"
	resetExpired = "expired"
	resetCorrupt = "corrupt"
)

type metrics struct {
	commands        *prometheus.CounterVec
	persistFailures prometheus.Counter
	resets          *prometheus.CounterVec
}

// newMetrics builds the catalog collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered by
// another store on the same registry are shared.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "torch_catalog_commands_total",
			Help: "Catalog commands applied, by command name.",
		}, []string{"command"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "torch_catalog_persist_failures_total",
			Help: "Snapshot writes that failed after a command was applied.",
		}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "torch_catalog_resets_total",
			Help: "Catalog resets at initialization, by reason.",
		}, []string{"reason"}),
	}
	if reg == nil {
		return m
	}
	m.commands = register(reg, m.commands)
	m.persistFailures = register(reg, m.persistFailures)
	m.resets = register(reg, m.resets)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
