package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// FavoriteMutations counts favorite/unfavorite operations by outcome.
	// "applied" means the edge changed; "noop" means the call was idempotent.
	FavoriteMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_favorite_mutations_total",
		Help: "Total favorite/unfavorite mutations by operation and outcome",
	}, []string{"operation", "outcome"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
