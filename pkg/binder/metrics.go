package binder

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

const (
	outcomeClean   = "clean"
	outcomeSpam    = "spam"
	outcomeUnbound = "unbound"
)

// Metrics counts inspected submissions and triggered honeypots.
type Metrics struct {
	submissions *prometheus.CounterVec
	triggers    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered. Collectors already registered by another Metrics
// are reused so several binders can share one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antispam",
		Name:      "submissions_total",
		Help:      "Form submissions inspected for honeypot spam, by form and outcome.",
	}, []string{"form", "outcome"})
	triggers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "antispam",
		Name:      "honeypot_triggers_total",
		Help:      "Honeypot hidden fields found filled, by form and field.",
	}, []string{"form", "field"})

	if reg != nil {
		var err error
		if submissions, err = register(reg, submissions); err != nil {
			return nil, err
		}
		if triggers, err = register(reg, triggers); err != nil {
			return nil, err
		}
	}
	return &Metrics{submissions: submissions, triggers: triggers}, nil
}

func register(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

func (m *Metrics) observe(form string, result honeypot.Result) {
	if m == nil {
		return
	}
	outcome := outcomeClean
	switch {
	case result.HasSpam():
		outcome = outcomeSpam
	case !result.Bound:
		outcome = outcomeUnbound
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
	for _, field := range result.SpamFields {
		m.triggers.WithLabelValues(form, field).Inc()
	}
}
