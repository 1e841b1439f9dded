package binder

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-antispam/pkg/honeypot"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics, err := NewMetrics(promReg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	reg := honeypot.MustRegistry(honeypot.Pair("email", honeypot.KindEmail), honeypot.Bare("website"))
	b := New(reg,
		WithForm("contact"),
		WithMetrics(metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	submit := func(values url.Values) {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if _, err := b.Bind(req); err != nil {
			t.Fatalf("bind: %v", err)
		}
	}

	submit(url.Values{"email": {""}, honeypot.PublicIdentifierFor("email"): {"a@b.c"}})
	submit(url.Values{"email": {"bot"}, "website": {"http://spam"}})
	submit(url.Values{"website": {"http://spam"}})
	submit(url.Values{})

	checks := []struct {
		vec    *prometheus.CounterVec
		labels []string
		want   float64
	}{
		{metrics.submissions, []string{"contact", outcomeClean}, 1},
		{metrics.submissions, []string{"contact", outcomeSpam}, 2},
		{metrics.submissions, []string{"contact", outcomeUnbound}, 1},
		{metrics.triggers, []string{"contact", "email"}, 1},
		{metrics.triggers, []string{"contact", "website"}, 2},
	}
	for _, check := range checks {
		if got := testutil.ToFloat64(check.vec.WithLabelValues(check.labels...)); got != check.want {
			t.Fatalf("%v: expected %v, got %v", check.labels, check.want, got)
		}
	}
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	promReg := prometheus.NewRegistry()
	first, err := NewMetrics(promReg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewMetrics(promReg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.submissions != second.submissions || first.triggers != second.triggers {
		t.Fatalf("expected collectors to be shared")
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.observe("form", honeypot.Result{Bound: true, SpamFields: []string{"x"}})
}
