package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace = "slogate"

	LabelChannel   = "channel"
	LabelOperation = "operation"
	LabelResult    = "result"
)

type Channel = string

const (
	ChannelBack  = "back_channel"
	ChannelFront = "front_channel"
)

type Result = string

const (
	ResultSuccess      = "success"
	ResultFailure      = "failure"
	ResultNotAttempted = "not_attempted"
)

type RedisOperation = string

const (
	RedisOperationRead   = "Read"
	RedisOperationWrite  = "Write"
	RedisOperationDelete = "Delete"
)

var (
	RedisLatency    = redisLatency()
	DispatchLatency = dispatchLatency()
	LogoutRequests  = logoutRequests()
	Logouts         = logouts()
)

func redisLatency() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "redis_latency",
		Namespace: Namespace,
		Help:      "latency in redis operations, in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{LabelOperation})
}

func dispatchLatency() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "logout_dispatch_latency",
		Namespace: Namespace,
		Help:      "latency of back-channel logout message dispatches, in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
	}, []string{LabelResult})
}

func logoutRequests() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "logout_requests",
		Namespace: Namespace,
		Help:      "cumulative number of per-service logout requests produced during logout fan-out",
	}, []string{LabelChannel, LabelResult})
}

func logouts() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name:      "logouts",
		Namespace: Namespace,
		Help:      "cumulative number of terminated sessions",
	})
}

// InitLabels zeroes out all possible label combinations
func InitLabels() {
	channels := []Channel{ChannelBack, ChannelFront}
	results := []Result{ResultSuccess, ResultFailure, ResultNotAttempted}

	for _, channel := range channels {
		for _, result := range results {
			LogoutRequests.With(prometheus.Labels{LabelChannel: channel, LabelResult: result})
		}
	}
}

func Handle(address string) error {
	Register(prometheus.DefaultRegisterer)
	InitLabels()

	handler := promhttp.Handler()
	return http.ListenAndServe(address, handler)
}

func Register(registry prometheus.Registerer) {
	registry.MustRegister(
		RedisLatency,
		DispatchLatency,
		LogoutRequests,
		Logouts,
	)
}

func ObserveRedisLatency(operation string, fun func() error) error {
	timer := time.Now()
	err := fun()
	used := time.Since(timer)
	RedisLatency.With(prometheus.Labels{
		LabelOperation: operation,
	}).Observe(used.Seconds())
	return err
}

func ObserveDispatchLatency(result Result, duration time.Duration) {
	DispatchLatency.With(prometheus.Labels{
		LabelResult: result,
	}).Observe(duration.Seconds())
}

func ObserveLogoutRequest(channel Channel, result Result) {
	LogoutRequests.With(prometheus.Labels{
		LabelChannel: channel,
		LabelResult:  result,
	}).Inc()
}

func ObserveLogout() {
	Logouts.Inc()
}
