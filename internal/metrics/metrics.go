// Package metrics exposes prometheus counters for availability and menu changes.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bagelshop"

var (
	once sync.Once

	scheduleMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_mutations_total",
			Help:      "Count of committed schedule changes by operation.",
		},
		[]string{"op"},
	)

	overrideMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "override_mutations_total",
			Help:      "Count of committed date override changes by operation.",
		},
		[]string{"op"},
	)

	productMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_mutations_total",
			Help:      "Count of committed menu product changes by operation.",
		},
		[]string{"op"},
	)

	openStatusChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "open_status_checks_total",
			Help:      "Count of open-now checks by result.",
		},
		[]string{"result"},
	)

	overridesPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overrides_pruned_total",
			Help:      "Count of past date overrides removed by the prune job.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(scheduleMutations, overrideMutations, productMutations, openStatusChecks, overridesPruned)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

func IncScheduleMutation(op string) {
	scheduleMutations.WithLabelValues(op).Inc()
}

func IncOverrideMutation(op string) {
	overrideMutations.WithLabelValues(op).Inc()
}

func AddProductMutations(op string, n int) {
	if n <= 0 {
		return
	}
	productMutations.WithLabelValues(op).Add(float64(n))
}

func IncOpenStatusCheck(open bool) {
	openStatusChecks.WithLabelValues(strconv.FormatBool(open)).Inc()
}

func AddOverridesPruned(n int64) {
	overridesPruned.Add(float64(n))
}
