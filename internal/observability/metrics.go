// Package observability provides prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxpop_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VoteToggles counts vote toggle attempts by direction and outcome.
	VoteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxpop_vote_toggles_total",
		Help: "Total vote toggle attempts by direction and outcome",
	}, []string{"direction", "outcome"})
)
