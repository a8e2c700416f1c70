// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status filters
const (
	StatusOpen     = "open"
	StatusFinished = "finished"
)

// Request types

type CreatePollRequest struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`
}

type CastVoteRequest struct {
	ItemID string `json:"item_id"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key,omitempty"`
}

type CastVoteResponse struct {
	PollID  string `json:"poll_id"`
	ItemID  string `json:"item_id"`
	Tally   int    `json:"tally"`
	Message string `json:"message"`
}

type EndPollResponse struct {
	PollID   string `json:"poll_id"`
	Finished bool   `json:"finished"`
}

type EligibilityResponse struct {
	PollID  string `json:"poll_id"`
	CanVote bool   `json:"can_vote"`
}

type TallyResponse struct {
	PollID string `json:"poll_id"`
	ItemID string `json:"item_id"`
	Votes  int    `json:"votes"`
}

type ListPollsResponse struct {
	Polls []Poll `json:"polls"`
}

// Domain types

// User is a voter, keyed by an opaque identity string (a client IP today).
type User struct {
	ID        string    `json:"id" db:"id"`
	Identity  string    `json:"-" db:"identity"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ItemAttrs is what the catalog returns for a name.
type ItemAttrs struct {
	Name         string  `json:"name"`
	BaseExp      float64 `json:"base_exp"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
	SpriteImgURL string  `json:"sprite_img_url"`
}

type Item struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	BaseExp      float64   `json:"base_exp" db:"base_exp"`
	Height       float64   `json:"height" db:"height"`
	Weight       float64   `json:"weight" db:"weight"`
	SpriteImgURL string    `json:"sprite_img_url" db:"sprite_img_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Poll struct {
	ID         string     `json:"id" db:"id"`
	ItemAID    string     `json:"item_a_id" db:"item_a_id"`
	ItemBID    string     `json:"item_b_id" db:"item_b_id"`
	Finished   bool       `json:"finished" db:"finished"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// HasItem reports whether itemID is one of the two items under vote.
func (p Poll) HasItem(itemID string) bool {
	return itemID != "" && (itemID == p.ItemAID || itemID == p.ItemBID)
}

type Vote struct {
	ID        string    `json:"id" db:"id"`
	PollID    string    `json:"poll_id" db:"poll_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	UserID    string    `json:"-" db:"user_id"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Poll views

type Contender struct {
	Item    Item `json:"item"`
	Votes   int  `json:"votes"`
	Winning bool `json:"winning"`
}

// PollSummary is a poll with both items and their current tallies.
type PollSummary struct {
	Poll   Poll      `json:"poll"`
	ItemA  Contender `json:"item_a"`
	ItemB  Contender `json:"item_b"`
	Total  int       `json:"total"`
	Leader string    `json:"leader,omitempty"` // item id, empty on a tie
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
