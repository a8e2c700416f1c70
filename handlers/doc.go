// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the pokepoll API.

# Handler Types

Each handler is a thin struct over *polls.Service:

  - PollHandler: create, list, read and end polls
  - VotingHandler: cast votes and check eligibility
  - ResultsHandler: per-item tallies and stored items

	pollHandler := handlers.NewPollHandler(svc, cfg)

# Callers

Every request is turned into an auth.Context. The voter identity is the
client address from middleware.GetClientIP, hashed with auth.HashIP when an
identity salt is configured. The X-Admin-Key header is passed through for
ending polls.

# Poll Lifecycle

	POST /polls             → CreatePoll (returns admin_key when a salt is set)
	GET  /polls/open        → GetOpenPoll (404 when none is open)
	GET  /polls/{id}        → GetPoll
	POST /polls/{id}/end    → EndPoll (X-Admin-Key)

# Voting

	POST /polls/{id}/votes              → CastVote
	GET  /polls/{id}/eligibility        → GetEligibility
	GET  /polls/{id}/items/{itemId}/tally → GetTally

# Errors

Service errors are written with middleware.WriteError, which maps the error
kind to a status code: 400 invalid argument, 403 forbidden, 404 not found,
409 conflict or already voted, 503 unavailable.
*/
package handlers
