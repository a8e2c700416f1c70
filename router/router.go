// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/handlers"
	"github.com/danielhkuo/pokepoll/metrics"
	"github.com/danielhkuo/pokepoll/middleware"
	"github.com/danielhkuo/pokepoll/polls"
)

func NewRouter(svc *polls.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Poll lifecycle
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/open", middleware.WithLogging(pollHandler.GetOpenPoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/end", middleware.WithLogging(pollHandler.EndPoll))

	// Voting
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /polls/{id}/eligibility", middleware.WithLogging(votingHandler.GetEligibility))

	// Results
	mux.HandleFunc("GET /polls/{id}/items/{itemId}/tally", middleware.WithLogging(resultsHandler.GetTally))
	mux.HandleFunc("GET /items/{id}", middleware.WithLogging(resultsHandler.GetItem))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pokepoll API v1"))
	})

	return mux
}
