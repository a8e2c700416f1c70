// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/middleware"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/polls"
)

type PollHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewPollHandler(svc *polls.Service, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: svc, cfg: cfg}
}

// caller builds the auth context for a web request.
func caller(r *http.Request, cfg cliparse.Config) auth.Context {
	identity := auth.Identity(middleware.GetClientIP(r), cfg.IdentitySalt)
	return auth.Public(identity, r.Header.Get("X-Admin-Key"))
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.CreatePoll(r.Context(), caller(r, h.cfg), req.ItemA, req.ItemB)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := models.CreatePollResponse{PollID: p.ID}
	if h.cfg.AdminKeySalt != "" {
		resp.AdminKey = auth.GenerateAdminKey(p.ID, h.cfg.AdminKeySalt)
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// ListPolls handles GET /polls?status=open|finished&limit=N
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := h.svc.ListPolls(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Poll{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: list})
}

// GetOpenPoll handles GET /polls/open
func (h *PollHandler) GetOpenPoll(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.OpenSummary(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if sum == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "no poll is open")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sum)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sum)
}

// EndPoll handles POST /polls/{id}/end
func (h *PollHandler) EndPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	if err := h.svc.EndPoll(r.Context(), caller(r, h.cfg), pollID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EndPollResponse{
		PollID:   pollID,
		Finished: true,
	})
}
