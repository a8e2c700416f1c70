// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name     string
		err      error
		wantKind error
		wantMsg  string
	}{
		{"invalid argument", Errorf(ErrInvalidArgument, "two different items required"), ErrInvalidArgument, "two different items required"},
		{"not found", Errorf(ErrNotFound, "could not find item %s", "missingno"), ErrNotFound, "could not find item missingno"},
		{"conflict", Errorf(ErrConflict, "a poll is already open"), ErrConflict, "a poll is already open"},
		{"already voted", Errorf(ErrAlreadyVoted, "already voted"), ErrAlreadyVoted, "already voted"},
		{"unavailable hides cause", Unavailable("store unavailable", cause), ErrUnavailable, "store unavailable"},
		{"wrapped", fmt.Errorf("create poll: %w", Errorf(ErrNotFound, "gone")), ErrNotFound, "create poll: gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.wantKind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantKind)
			}
			if got := KindOf(tt.err); got != tt.wantKind {
				t.Errorf("KindOf() = %v, want %v", got, tt.wantKind)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestAlreadyVotedIsConflict(t *testing.T) {
	err := Errorf(ErrAlreadyVoted, "this identity has already voted in this poll")
	if !errors.Is(err, ErrConflict) {
		t.Error("AlreadyVoted should match ErrConflict")
	}
	if errors.Is(Errorf(ErrConflict, "x"), ErrAlreadyVoted) {
		t.Error("plain Conflict should not match ErrAlreadyVoted")
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Unavailable("store unavailable", cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through errors.Is")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if KindOf(errors.New("plain")) != nil {
		t.Error("unclassified error should have no kind")
	}
	if KindOf(nil) != nil {
		t.Error("nil should have no kind")
	}
}

func TestPollHasItem(t *testing.T) {
	p := Poll{ItemAID: "a", ItemBID: "b"}
	if !p.HasItem("a") || !p.HasItem("b") {
		t.Error("expected both poll items to match")
	}
	if p.HasItem("c") || p.HasItem("") {
		t.Error("unexpected match")
	}
}
