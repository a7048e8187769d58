package garden

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	schedulerTicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happyherbs_scheduler_ticks_total",
		Help: "Total number of scheduler ticks executed.",
	})

	connectAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "happyherbs_connect_attempts_total",
		Help: "Total number of transport connect attempts by result.",
	}, []string{"result"})

	publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "happyherbs_publish_total",
		Help: "Total number of publish attempts by document kind and result.",
	}, []string{"kind", "result"})

	pumpRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happyherbs_pump_runs_total",
		Help: "Total number of water pump activations.",
	})

	// connectedGauge is 1 while the transport connection is up, 0 otherwise.
	connectedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "happyherbs_connected",
		Help: "1 if the appliance is connected to the broker, 0 otherwise.",
	})
)

const (
	resultSuccess = "success"
	resultFailure = "failure"

	kindShadowUpdate = "shadow_update"
	kindMeasurements = "measurements"
)
