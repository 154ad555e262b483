package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation and persistence outcomes.
type CartMetrics struct {
	mutations        *prometheus.CounterVec
	persistFailures  prometheus.Counter
	hydrateResets    prometheus.Counter
	degradedHydrates prometheus.Counter
	checkouts        *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Swallowed cart persistence write failures.",
	})
	hydrateResets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_hydrate_resets_total",
		Help: "Carts reset to empty after a corrupt persisted blob.",
	})
	degradedHydrates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_degraded_hydrates_total",
		Help: "Carts served empty because the persistence backend failed to read.",
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, persistFailures, hydrateResets, degradedHydrates, checkouts)
	return &CartMetrics{
		mutations:        mutations,
		persistFailures:  persistFailures,
		hydrateResets:    hydrateResets,
		degradedHydrates: degradedHydrates,
		checkouts:        checkouts,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistFailure increments the swallowed-write counter.
func (c *CartMetrics) IncPersistFailure() {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.Inc()
}

// IncHydrateReset increments the corrupt-blob recovery counter.
func (c *CartMetrics) IncHydrateReset() {
	if c == nil || c.hydrateResets == nil {
		return
	}
	c.hydrateResets.Inc()
}

// IncDegradedHydrate increments the backend-read-failure counter.
func (c *CartMetrics) IncDegradedHydrate() {
	if c == nil || c.degradedHydrates == nil {
		return
	}
	c.degradedHydrates.Inc()
}

// IncCheckout increments the checkout counter for the given outcome.
func (c *CartMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
