package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agora_posts_created_total",
		Help: "Total number of posts created",
	})

	// VotesToggled counts vote toggle operations by vote type.
	VotesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_votes_toggled_total",
		Help: "Total number of vote toggles by type",
	}, []string{"type"})

	// CommentsCreated counts successfully appended comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agora_comments_created_total",
		Help: "Total number of comments created",
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
