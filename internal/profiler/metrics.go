package profiler

import "github.com/prometheus/client_golang/prometheus"

// metricSet mirrors the profiler's in-memory counters on a Prometheus
// registry so a simulation's counters can be scraped, the way the
// teacher's internal/metrics/prometheus.go scrapes a live cluster — here
// the simulator is the thing being observed instead of the thing querying.
type metricSet struct {
	energyJoules prometheus.Gauge
	cyclesTotal  *prometheus.CounterVec
	tasksCreated prometheus.Counter
	tasksEnded   prometheus.Counter
	placements   *prometheus.CounterVec
}

func newMetricSet(reg *prometheus.Registry) *metricSet {
	m := &metricSet{
		energyJoules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eas_sim",
			Name:      "energy_joules_total",
			Help:      "Cumulative simulated energy consumption in Joules.",
		}),
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eas_sim",
			Name:      "cycles_total",
			Help:      "Cycles charged per class (user, energy, balance, idle, slack).",
		}, []string{"class"}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eas_sim",
			Name:      "tasks_created_total",
			Help:      "Tasks emitted by the load generator.",
		}),
		tasksEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eas_sim",
			Name:      "tasks_ended_total",
			Help:      "User tasks that reached zero remaining cycles.",
		}),
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eas_sim",
			Name:      "placements_total",
			Help:      "Wake-up balancer decisions per kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.energyJoules, m.cyclesTotal, m.tasksCreated, m.tasksEnded, m.placements)
	return m
}
