// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/pokepoll/middleware"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/polls"
)

type ResultsHandler struct {
	svc *polls.Service
}

func NewResultsHandler(svc *polls.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetTally handles GET /polls/{id}/items/{itemId}/tally
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	itemID := r.PathValue("itemId")

	votes, err := h.svc.Tally(r.Context(), pollID, itemID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		PollID: pollID,
		ItemID: itemID,
		Votes:  votes,
	})
}

// GetItem handles GET /items/{id}
func (h *ResultsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Item(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, item)
}
