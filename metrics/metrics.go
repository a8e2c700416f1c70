// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokepoll",
		Name:      "polls_created_total",
		Help:      "Polls opened.",
	})

	PollsEnded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokepoll",
		Name:      "polls_ended_total",
		Help:      "End-poll requests that succeeded, including repeats.",
	})

	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokepoll",
		Name:      "votes_cast_total",
		Help:      "Votes recorded.",
	})

	VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokepoll",
		Name:      "votes_rejected_total",
		Help:      "Votes refused, by reason.",
	}, []string{"reason"})

	CatalogLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokepoll",
		Name:      "catalog_lookups_total",
		Help:      "Catalog lookups by result (fetched, cache_hit, not_found, error).",
	}, []string{"result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
