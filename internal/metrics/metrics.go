// Package metrics exposes Prometheus metrics for the gesture
// pipeline. Metrics are registered on the default registry and served
// by the web package's /metrics endpoint.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gesturesRouted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multibutton",
		Name:      "gestures_routed_total",
		Help:      "Routed gestures by kind and unit",
	}, []string{"kind", "unit"})

	gesturesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multibutton",
		Name:      "gestures_rejected_total",
		Help:      "Unrecognized gestures by unit",
	}, []string{"unit"})

	resetsFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "multibutton",
		Name:      "resets_fired_total",
		Help:      "Factory reset sequences started",
	})

	guardCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "multibutton",
		Name:      "reset_guard_count",
		Help:      "Current run of consecutive reset trigger gestures",
	})

	provisioningState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "multibutton",
		Name:      "provisioning_state",
		Help:      "Provisioning state (1 on the active state's label)",
	}, []string{"state"})

	mqttConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "multibutton",
		Name:      "mqtt_connected",
		Help:      "Whether the MQTT connection is up",
	})

	unitsInoperative = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "multibutton",
		Name:      "units_inoperative",
		Help:      "Switch units that failed to initialize",
	})
)

var provisioningStates = []string{"connected", "disconnected", "setup"}

// RecordGesture counts a routed gesture.
func RecordGesture(kind string, unit int) {
	gesturesRouted.WithLabelValues(kind, strconv.Itoa(unit)).Inc()
}

// RecordRejected counts an unrecognized gesture.
func RecordRejected(unit int) {
	gesturesRejected.WithLabelValues(strconv.Itoa(unit)).Inc()
}

// RecordResetFired counts a started factory reset sequence.
func RecordResetFired() {
	resetsFired.Inc()
}

// SetGuardCount mirrors the reset guard's trigger run.
func SetGuardCount(count int) {
	guardCount.Set(float64(count))
}

// SetProvisioningState marks the active provisioning state.
func SetProvisioningState(state string) {
	for _, s := range provisioningStates {
		v := 0.0
		if s == state {
			v = 1.0
		}
		provisioningState.WithLabelValues(s).Set(v)
	}
}

// SetMQTTConnected sets the connection gauge.
func SetMQTTConnected(up bool) {
	if up {
		mqttConnected.Set(1)
		return
	}
	mqttConnected.Set(0)
}

// AddUnitInoperative counts one more failed switch unit.
func AddUnitInoperative() {
	unitsInoperative.Inc()
}
