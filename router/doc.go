// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the pokepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, cfg)
	server := http.Server{Handler: middleware.CORS(mux)}

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Polls:

	POST /polls                   - Open a poll between two items
	GET  /polls                   - List polls (?status=open|finished&limit=N)
	GET  /polls/open              - The open poll with tallies
	GET  /polls/{id}              - One poll with tallies
	POST /polls/{id}/end          - End a poll (X-Admin-Key)

Voting and results:

	POST /polls/{id}/votes                - Cast a vote
	GET  /polls/{id}/eligibility          - Whether the caller may vote
	GET  /polls/{id}/items/{itemId}/tally - Votes for one item
	GET  /items/{id}                      - A stored item

GET /polls/open is registered next to GET /polls/{id}; the literal segment
wins under Go 1.22 pattern precedence.
*/
package router
