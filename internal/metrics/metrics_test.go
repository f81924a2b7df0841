package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/metrics"
	"github.com/aretw0/wayfinder/pkg/domain"
)

func TestTreeHooks(t *testing.T) {
	hooks := metrics.TreeHooks()
	sel := metrics.Transitions.WithLabelValues("metrics-test", "select")
	out := metrics.Outcomes.WithLabelValues("metrics-test", "end")
	dis := metrics.Discards.WithLabelValues("metrics-test")
	beforeSel, beforeOut, beforeDis := testutil.ToFloat64(sel), testutil.ToFloat64(out), testutil.ToFloat64(dis)

	hooks.OnTransition(&domain.NodeEvent{GraphID: "metrics-test", Type: domain.EventSelect, NodeID: "end"})
	hooks.OnTransition(&domain.NodeEvent{GraphID: "metrics-test", Type: domain.EventOutcome, NodeID: "end"})
	hooks.OnDiscard(&domain.DiscardEvent{GraphID: "metrics-test", Dropped: []string{"a", "b"}})

	assert.Equal(t, beforeSel+1, testutil.ToFloat64(sel))
	assert.Equal(t, beforeOut+1, testutil.ToFloat64(out))
	assert.Equal(t, beforeDis+2, testutil.ToFloat64(dis))
}

func TestQuizHooks(t *testing.T) {
	hooks := metrics.QuizHooks()
	fallback := metrics.Feedback.WithLabelValues("fallback")
	before := testutil.ToFloat64(fallback)

	hooks.OnFeedback(true)
	assert.Equal(t, before+1, testutil.ToFloat64(fallback))
}

func TestChain(t *testing.T) {
	var calls []string
	chained := metrics.Chain(
		domain.LifecycleHooks{OnTransition: func(*domain.NodeEvent) { calls = append(calls, "first") }},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnTransition: func(*domain.NodeEvent) { calls = append(calls, "second") }},
	)
	chained.OnTransition(&domain.NodeEvent{})
	chained.OnDiscard(&domain.DiscardEvent{})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", metrics.Handler())

	counter := metrics.HTTPRequests.WithLabelValues("GET", "/things/{id}", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wayfinder_http_requests_total")
}
