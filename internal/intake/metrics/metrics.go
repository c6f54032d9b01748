package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake configuration module.
type Metrics struct {
	// Forced feature disables by feature and trigger
	ForcedDisable *prometheus.CounterVec

	// Submission build outcomes by surface and result
	BuildOutcome *prometheus.CounterVec

	// Plan changes by surface
	PlanChange *prometheus.CounterVec
}

// New creates a new Metrics instance with all intake module metrics registered.
func New() *Metrics {
	return &Metrics{
		ForcedDisable: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridesk_intake_forced_disables_total",
			Help: "Total feature toggles forced off by prerequisite withdrawal",
		}, []string{"feature", "trigger"}), // feature: "risk", "sanctions"; trigger: "selection", "plan_change"

		BuildOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridesk_intake_build_outcomes_total",
			Help: "Total submission builds by surface and result",
		}, []string{"surface", "result"}), // surface: "applicant_create", "applicant_edit", "flow"

		PlanChange: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridesk_intake_plan_changes_total",
			Help: "Total subscription plan switches on configuration surfaces",
		}, []string{"surface"}),
	}
}

// IncrementForcedDisable records a feature toggle forced off by an update.
func (m *Metrics) IncrementForcedDisable(feature, trigger string) {
	if m != nil {
		m.ForcedDisable.WithLabelValues(feature, trigger).Inc()
	}
}

// IncrementBuildOutcome records a submission build result.
func (m *Metrics) IncrementBuildOutcome(surface, result string) {
	if m != nil {
		m.BuildOutcome.WithLabelValues(surface, result).Inc()
	}
}

// IncrementPlanChange records a plan switch on a configuration surface.
func (m *Metrics) IncrementPlanChange(surface string) {
	if m != nil {
		m.PlanChange.WithLabelValues(surface).Inc()
	}
}
