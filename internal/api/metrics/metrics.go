// Package metrics defines and registers the custom Prometheus metrics of the
// daily-diet API. HTTP request metrics come from the echoprometheus middleware;
// the counters here track domain events.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "daily_diet"

// SignUpsTotal counts sign-up attempts.
// Label:
//   - result: "created", "duplicate", "invalid" or "error"
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ups_total",
		Help:      "Total number of sign-up attempts, by result.",
	},
	[]string{"result"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// MealsCreatedTotal counts newly logged meals.
// Label:
//   - in_diet: "true" or "false"
var MealsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meals_created_total",
		Help:      "Total number of meals created, by diet flag.",
	},
	[]string{"in_diet"},
)

// IdempotentReplaysTotal counts create requests skipped because their Idempotency-Key was already used.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meal_idempotent_replays_total",
		Help:      "Total number of meal create requests answered as replays.",
	},
)

// ObserveMealCreated increments MealsCreatedTotal for the given flag.
func ObserveMealCreated(inDiet bool) {
	MealsCreatedTotal.WithLabelValues(strconv.FormatBool(inDiet)).Inc()
}
