// Package metrics holds the Prometheus collectors and the adapters that feed them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_transitions_total",
		Help: "Traversal events, labelled by graph and event type (start, select, back, reset, outcome, unresolved).",
	}, []string{"graph_id", "type"})

	Outcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_outcomes_total",
		Help: "Result nodes reached, labelled by graph and node.",
	}, []string{"graph_id", "node_id"})

	Discards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_discarded_answers_total",
		Help: "Answers dropped after an upstream choice changed.",
	}, []string{"graph_id"})

	QuizSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_quiz_sessions_total",
		Help: "Quiz sessions created, labelled by survey.",
	}, []string{"survey_id"})

	QuizAnswers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wayfinder_quiz_answers_total",
		Help: "Quiz answers saved.",
	})

	Feedback = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_feedback_total",
		Help: "Feedback produced, labelled by source (generated, fallback).",
	}, []string{"source"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wayfinder_http_requests_total",
		Help: "HTTP requests, labelled by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wayfinder_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// TreeHooks records traversal events. Chain it with other hooks via Chain.
func TreeHooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.NodeEvent) {
			Transitions.WithLabelValues(e.GraphID, string(e.Type)).Inc()
			if e.Type == domain.EventOutcome {
				Outcomes.WithLabelValues(e.GraphID, e.NodeID).Inc()
			}
		},
		OnDiscard: func(e *domain.DiscardEvent) {
			Discards.WithLabelValues(e.GraphID).Add(float64(len(e.Dropped)))
		},
	}
}

// QuizHooks records quiz service outcomes.
func QuizHooks() quiz.Hooks {
	return quiz.Hooks{
		OnSessionCreated: func(surveyID string) {
			QuizSessions.WithLabelValues(surveyID).Inc()
		},
		OnAnswerSaved: func(string) {
			QuizAnswers.Inc()
		},
		OnFeedback: func(fallback bool) {
			source := "generated"
			if fallback {
				source = "fallback"
			}
			Feedback.WithLabelValues(source).Inc()
		},
	}
}

// Chain runs every set of hooks in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.NodeEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(e)
				}
			}
		},
		OnDiscard: func(e *domain.DiscardEvent) {
			for _, h := range hooks {
				if h.OnDiscard != nil {
					h.OnDiscard(e)
				}
			}
		},
	}
}

// Middleware counts and times requests by chi route pattern, which keeps label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
