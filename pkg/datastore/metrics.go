package datastore

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

type metrics struct {
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
	pushes         *prometheus.CounterVec
	pulls          *prometheus.CounterVec
	rollbacks      *prometheus.CounterVec
	observed       *prometheus.CounterVec
	events         *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "commits_total",
			Help:      "Committed transactions by result.",
		}, []string{"result"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fea",
			Name:      "commit_duration_seconds",
			Help:      "Duration of a transaction commit including push and verification.",
			Buckets:   prometheus.DefBuckets,
		}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "pushes_total",
			Help:      "Pushes to the Set plugins by result.",
		}, []string{"result"}),
		pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "pulls_total",
			Help:      "Pulls from the Get plugin by result.",
		}, []string{"result"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "rollbacks_total",
			Help:      "Reversals to the previous configuration after a failed push.",
		}, []string{"result"}),
		observed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "observed_changes_total",
			Help:      "Changes reported by Observer plugins by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fea",
			Name:      "update_events_total",
			Help:      "Update events sent to listeners by kind.",
		}, []string{"kind"}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.commits, m.commitDuration, m.pushes, m.pulls, m.rollbacks, m.observed, m.events}
}

func result(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}
