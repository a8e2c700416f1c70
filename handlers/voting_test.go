// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/testutil"
)

func TestCastVote(t *testing.T) {
	svc, cfg := setupService(t)
	handler := NewVotingHandler(svc, cfg)
	p := createTestPoll(t, svc, "Pikachu", "Charizard")
	path := map[string]string{"id": p.ID}

	req := testutil.MakeRequest("POST", "/polls/"+p.ID+"/votes", models.CastVoteRequest{ItemID: p.ItemAID}, fromIP("1.2.3.4"))
	w := serve(handler.CastVote, req, path)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Tally != 1 {
		t.Errorf("Expected tally 1, got %d", resp.Tally)
	}

	// Same address again, other item.
	req = testutil.MakeRequest("POST", "/polls/"+p.ID+"/votes", models.CastVoteRequest{ItemID: p.ItemBID}, fromIP("1.2.3.4"))
	w = serve(handler.CastVote, req, path)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Message != "this identity has already voted in this poll" {
		t.Errorf("Unexpected message %q", errResp.Message)
	}

	req = testutil.MakeRequest("POST", "/polls/"+p.ID+"/votes", models.CastVoteRequest{ItemID: p.ItemBID}, fromIP("5.6.7.8"))
	w = serve(handler.CastVote, req, path)
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestCastVote_Errors(t *testing.T) {
	svc, cfg := setupService(t)
	handler := NewVotingHandler(svc, cfg)
	p := createTestPoll(t, svc, "Pikachu", "Charizard")

	testCases := []struct {
		name           string
		pollID         string
		body           interface{}
		expectedStatus int
	}{
		{"missing item", p.ID, models.CastVoteRequest{}, http.StatusBadRequest},
		{"item not in poll", p.ID, models.CastVoteRequest{ItemID: "other"}, http.StatusBadRequest},
		{"unknown poll", "missing", models.CastVoteRequest{ItemID: p.ItemAID}, http.StatusNotFound},
		{"invalid json", p.ID, nil, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls/"+tc.pollID+"/votes", tc.body, fromIP("9.9.9.9"))
			w := serve(handler.CastVote, req, map[string]string{"id": tc.pollID})
			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

func TestCastVote_FinishedPoll(t *testing.T) {
	svc, cfg := setupService(t)
	handler := NewVotingHandler(svc, cfg)
	p := createTestPoll(t, svc, "Pikachu", "Charizard")
	if err := svc.EndPoll(context.Background(), auth.System("test"), p.ID); err != nil {
		t.Fatal(err)
	}

	req := testutil.MakeRequest("POST", "/polls/"+p.ID+"/votes", models.CastVoteRequest{ItemID: p.ItemAID}, fromIP("1.2.3.4"))
	w := serve(handler.CastVote, req, map[string]string{"id": p.ID})
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestGetEligibility(t *testing.T) {
	svc, cfg := setupService(t)
	cfg.IdentitySalt = "identity-salt"
	voting := NewVotingHandler(svc, cfg)
	p := createTestPoll(t, svc, "Pikachu", "Charizard")
	path := map[string]string{"id": p.ID}

	check := func(ip string, want bool) {
		t.Helper()
		w := serve(voting.GetEligibility, testutil.MakeRequest("GET", "/polls/"+p.ID+"/eligibility", nil, fromIP(ip)), path)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.EligibilityResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.CanVote != want {
			t.Errorf("CanVote for %s = %v, want %v", ip, resp.CanVote, want)
		}
	}

	check("1.2.3.4", true)

	req := testutil.MakeRequest("POST", "/polls/"+p.ID+"/votes", models.CastVoteRequest{ItemID: p.ItemAID}, fromIP("1.2.3.4"))
	testutil.AssertStatus(t, serve(voting.CastVote, req, path), http.StatusCreated)

	check("1.2.3.4", false)
	check("5.6.7.8", true)

	// The stored identity is the salted hash, never the raw address.
	if _, found, _ := svc.Users.Lookup(context.Background(), "1.2.3.4"); found {
		t.Error("Raw address should not be stored when an identity salt is set")
	}
	if _, found, _ := svc.Users.Lookup(context.Background(), auth.HashIP("1.2.3.4", cfg.IdentitySalt)); !found {
		t.Error("Expected hashed identity to be stored")
	}
}
