// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and error types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: item_a, item_b
  - CastVoteRequest: item_id

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, admin_key
  - CastVoteResponse: poll_id, item_id, tally, message
  - EndPollResponse: poll_id, finished
  - EligibilityResponse: poll_id, can_vote
  - TallyResponse: poll_id, item_id, votes
  - ListPollsResponse: polls
  - ErrorResponse: error, message

# Domain Types

  - User: voter keyed by identity (never exposed in JSON)
  - Item: catalog entry cached locally after the first lookup
  - ItemAttrs: catalog lookup result
  - Poll: open-or-finished contest between two items
  - Vote: one user's ballot in one poll
  - PollSummary: poll with items, tallies and leader

# Errors

Every failure the core reports is an *Error with one of these kinds:

	ErrInvalidArgument → 400
	ErrForbidden       → 403
	ErrNotFound        → 404
	ErrConflict        → 409
	ErrAlreadyVoted    → 409 (also matches ErrConflict)
	ErrUnavailable     → 503

Error() returns only the human-readable message; the wrapped cause stays
available to errors.Is/As and to logs.
*/
package models
