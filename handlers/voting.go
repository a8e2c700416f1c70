// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/middleware"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/polls"
)

type VotingHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *polls.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.CastVote(r.Context(), caller(r, h.cfg), pollID, req.ItemID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	tally, err := h.svc.Tally(r.Context(), pollID, req.ItemID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		PollID:  pollID,
		ItemID:  req.ItemID,
		Tally:   tally,
		Message: "Vote recorded",
	})
}

// GetEligibility handles GET /polls/{id}/eligibility
func (h *VotingHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	ok, err := h.svc.CanVote(r.Context(), pollID, caller(r, h.cfg).Identity)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EligibilityResponse{
		PollID:  pollID,
		CanVote: ok,
	})
}
