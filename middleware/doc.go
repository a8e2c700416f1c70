// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls/open", middleware.WithLogging(handler))

Logs one record per request with method, path, status and duration_ms.
5xx responses are logged at error level.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST and OPTIONS with the Content-Type and X-Admin-Key headers.

# JSON Helpers

JSON is encoded with github.com/goccy/go-json.

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Service errors go through WriteError, which picks the status from the error
kind (see StatusFor) and only ever sends the error's public message:

	if err := svc.CastVote(ctx, ac, pollID, itemID); err != nil {
		middleware.WriteError(w, err)
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For (first entry), then X-Real-IP, then RemoteAddr with
the port stripped. The result is the voter identity.
*/
package middleware
