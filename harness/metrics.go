package harness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	trialPassed = "passed"
	trialFailed = "failed"
)

// stressTrials counts stress trials by outcome.
var stressTrials = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "flatsort_stress_trials_total",
	Help: "The total number of stress trials, by result",
}, []string{"result"})

func init() {
	stressTrials.WithLabelValues(trialPassed).Add(0)
	stressTrials.WithLabelValues(trialFailed).Add(0)
}
