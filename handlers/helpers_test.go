// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/cliparse"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/polls"
	"github.com/danielhkuo/pokepoll/testutil"
)

func setupService(t *testing.T) (*polls.Service, cliparse.Config) {
	t.Helper()
	cfg := testutil.GetTestConfig()
	svc := polls.New(testutil.SetupTestDB(t), testutil.NewFakeCatalog(), auth.Policy{Salt: cfg.AdminKeySalt})
	return svc, cfg
}

func createTestPoll(t *testing.T, svc *polls.Service, a, b string) models.Poll {
	t.Helper()
	p, err := svc.CreatePoll(context.Background(), auth.System("test"), a, b)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return p
}

func fromIP(ip string) map[string]string {
	return map[string]string{"X-Forwarded-For": ip}
}

// serve runs handler on req with path values set the way the router would.
func serve(handler http.HandlerFunc, req *http.Request, pathValues map[string]string) *httptest.ResponseRecorder {
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
