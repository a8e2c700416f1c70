// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pokepoll/auth"
	"github.com/danielhkuo/pokepoll/models"
	"github.com/danielhkuo/pokepoll/polls"
	"github.com/danielhkuo/pokepoll/testutil"
)

func newService(t *testing.T) (*polls.Service, *testutil.FakeCatalog) {
	t.Helper()
	cat := testutil.NewFakeCatalog()
	return polls.New(testutil.SetupTestDB(t), cat, nil), cat
}

func voter(ip string) auth.Context {
	return auth.Public(ip, "")
}

func openPoll(t *testing.T, svc *polls.Service, a, b string) models.Poll {
	t.Helper()
	p, err := svc.CreatePoll(context.Background(), voter("creator"), a, b)
	require.NoError(t, err)
	return p
}

func TestCreatePoll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	p, err := svc.CreatePoll(ctx, voter("creator"), "Pikachu", "Charizard")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Finished)
	assert.NotEqual(t, p.ItemAID, p.ItemBID)

	open, err := svc.OpenPoll(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, p.ID, open.ID)

	a, err := svc.Item(ctx, p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", a.Name)
	assert.Equal(t, 112.0, a.BaseExp)

	b, err := svc.Item(ctx, p.ItemBID)
	require.NoError(t, err)
	assert.Equal(t, "charizard", b.Name)
}

func TestCreatePollValidation(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		wantKind error
		wantMsg  string
	}{
		{"empty first", "", "Charizard", models.ErrInvalidArgument, "names for both items are required"},
		{"empty second", "Pikachu", "", models.ErrInvalidArgument, "names for both items are required"},
		{"blank", "   ", "Charizard", models.ErrInvalidArgument, "names for both items are required"},
		{"same name", "Pikachu", "Pikachu", models.ErrInvalidArgument, "two different items are required"},
		{"same name other case", "pikachu", "PIKACHU", models.ErrInvalidArgument, "two different items are required"},
		{"unknown first", "Missingno", "Charizard", models.ErrNotFound, "could not find item Missingno"},
		{"unknown second", "Pikachu", "Agumon", models.ErrNotFound, "could not find item Agumon"},
		{"both unknown reports first", "Agumon", "Missingno", models.ErrNotFound, "could not find item Agumon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			_, err := svc.CreatePoll(context.Background(), voter("creator"), tt.a, tt.b)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, tt.wantMsg, err.Error())

			open, err := svc.OpenPoll(context.Background())
			require.NoError(t, err)
			assert.Nil(t, open, "failed creation must not open a poll")
		})
	}
}

func TestCreatePollAliasesToSameItem(t *testing.T) {
	svc, cat := newService(t)
	cat.Alias("Pika", "pikachu")

	_, err := svc.CreatePoll(context.Background(), voter("creator"), "Pikachu", "Pika")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestCreatePollNormalizesNames(t *testing.T) {
	svc, _ := newService(t)

	p := openPoll(t, svc, "Mr. Mime", "  bulbasaur ")

	a, err := svc.Item(context.Background(), p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, "mr-mime", a.Name)
}

func TestCreatePollCatalogUnavailable(t *testing.T) {
	svc, cat := newService(t)
	cat.Err = errors.New("connection refused")

	_, err := svc.CreatePoll(context.Background(), voter("creator"), "Pikachu", "Charizard")
	assert.ErrorIs(t, err, models.ErrUnavailable)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestCreatePollConflictWhenOpen(t *testing.T) {
	ctx := context.Background()
	svc, cat := newService(t)
	first := openPoll(t, svc, "Pikachu", "Charizard")

	_, err := svc.CreatePoll(ctx, voter("creator"), "Bulbasaur", "Mr. Mime")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "a poll is already open", err.Error())

	// The open-poll check runs before any catalog lookup.
	calls := cat.Calls()
	_, err = svc.CreatePoll(ctx, voter("creator"), "Agumon", "Missingno")
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, calls, cat.Calls())

	open, err := svc.OpenPoll(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)
}

func TestCreatePollAfterEnd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	first := openPoll(t, svc, "Pikachu", "Charizard")
	require.NoError(t, svc.EndPoll(ctx, voter("creator"), first.ID))

	second := openPoll(t, svc, "Pikachu", "Bulbasaur")
	assert.Equal(t, first.ItemAID, second.ItemAID, "registered items are reused")

	open, err := svc.OpenPoll(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, second.ID, open.ID)
}

func TestEndPoll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := openPoll(t, svc, "Pikachu", "Charizard")

	require.NoError(t, svc.EndPoll(ctx, voter("creator"), p.ID))

	ended, err := svc.Poll(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ended.Finished)
	require.NotNil(t, ended.FinishedAt)

	// Second call is a no-op.
	require.NoError(t, svc.EndPoll(ctx, voter("creator"), p.ID))
	again, err := svc.Poll(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Finished)
	assert.True(t, ended.FinishedAt.Equal(*again.FinishedAt), "finish time must not move")

	open, err := svc.OpenPoll(ctx)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestEndPollErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	err := svc.EndPoll(ctx, voter("creator"), "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	err = svc.EndPoll(ctx, voter("creator"), "does-not-exist")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEndPollRequiresAdminKey(t *testing.T) {
	ctx := context.Background()
	const salt = "test-admin-salt"
	svc := polls.New(testutil.SetupTestDB(t), testutil.NewFakeCatalog(), auth.Policy{Salt: salt})
	p := openPoll(t, svc, "Pikachu", "Charizard")

	err := svc.EndPoll(ctx, auth.Public("1.2.3.4", ""), p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.EndPoll(ctx, auth.Public("1.2.3.4", "wrong"), p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.EndPoll(ctx, auth.Public("1.2.3.4", auth.GenerateAdminKey(p.ID, salt)), p.ID)
	assert.NoError(t, err)

	// Operators skip the key.
	other := openPoll(t, svc, "Bulbasaur", "Charizard")
	assert.NoError(t, svc.EndPoll(ctx, auth.System("cli"), other.ID))
}

func TestPermissionsAreChecked(t *testing.T) {
	ctx := context.Background()
	svc := polls.New(testutil.SetupTestDB(t), testutil.NewFakeCatalog(), auth.Policy{})
	p := openPoll(t, svc, "Pikachu", "Charizard")

	readOnly := auth.Context{Identity: "1.2.3.4"}

	_, err := svc.CreatePoll(ctx, readOnly, "Bulbasaur", "Charizard")
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.CastVote(ctx, readOnly, p.ID, p.ItemAID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.EndPoll(ctx, readOnly, p.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := openPoll(t, svc, "Pikachu", "Charizard")

	require.NoError(t, svc.CastVote(ctx, voter("1.2.3.4"), p.ID, p.ItemAID))

	for _, item := range []string{p.ItemAID, p.ItemBID} {
		err := svc.CastVote(ctx, voter("1.2.3.4"), p.ID, item)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrAlreadyVoted)
		assert.ErrorIs(t, err, models.ErrConflict)
	}

	n, err := svc.Tally(ctx, p.ID, p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Tally(ctx, p.ID, p.ItemBID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCastVoteErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := openPoll(t, svc, "Pikachu", "Charizard")

	tests := []struct {
		name     string
		ac       auth.Context
		pollID   string
		itemID   string
		wantKind error
	}{
		{"missing poll id", voter("1.1.1.1"), "", p.ItemAID, models.ErrInvalidArgument},
		{"missing item id", voter("1.1.1.1"), p.ID, "", models.ErrInvalidArgument},
		{"unknown poll", voter("1.1.1.1"), "nope", p.ItemAID, models.ErrNotFound},
		{"item not in poll", voter("1.1.1.1"), p.ID, "some-other-item", models.ErrInvalidArgument},
		{"empty identity", voter(""), p.ID, p.ItemAID, models.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CastVote(ctx, tt.ac, tt.pollID, tt.itemID)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}

	n, err := svc.Tally(ctx, p.ID, p.ItemAID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCastVoteOnFinishedPoll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := openPoll(t, svc, "Pikachu", "Charizard")
	require.NoError(t, svc.CastVote(ctx, voter("1.2.3.4"), p.ID, p.ItemAID))
	require.NoError(t, svc.EndPoll(ctx, voter("creator"), p.ID))

	err := svc.CastVote(ctx, voter("5.6.7.8"), p.ID, p.ItemBID)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.NotErrorIs(t, err, models.ErrAlreadyVoted)

	// Votes survive the poll ending.
	n, err := svc.Tally(ctx, p.ID, p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTallyUnknownIsZero(t *testing.T) {
	svc, _ := newService(t)

	n, err := svc.Tally(context.Background(), "no-poll", "no-item")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCanVote(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	first := openPoll(t, svc, "Pikachu", "Charizard")

	ok, err := svc.CanVote(ctx, first.ID, "9.9.9.9")
	require.NoError(t, err)
	assert.True(t, ok)

	// Asking does not create a user.
	_, found, err := svc.Users.Lookup(ctx, "9.9.9.9")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.CastVote(ctx, voter("9.9.9.9"), first.ID, first.ItemBID))

	ok, err = svc.CanVote(ctx, first.ID, "9.9.9.9")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanVote(ctx, first.ID, "8.8.8.8")
	require.NoError(t, err)
	assert.True(t, ok)

	// Eligibility is per poll.
	require.NoError(t, svc.EndPoll(ctx, voter("creator"), first.ID))
	second := openPoll(t, svc, "Bulbasaur", "Charizard")
	ok, err = svc.CanVote(ctx, second.ID, "9.9.9.9")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CanVote(ctx, second.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	id1, err := svc.Users.Resolve(ctx, "1.2.3.4")
	require.NoError(t, err)
	id2, err := svc.Users.Resolve(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	other, err := svc.Users.Resolve(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.NotEqual(t, id1, other)

	_, err = svc.Users.Resolve(ctx, " ")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestRegistryFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	id1, err := svc.Items.GetOrCreate(ctx, testutil.Pikachu)
	require.NoError(t, err)

	changed := testutil.Pikachu
	changed.BaseExp = 999
	changed.SpriteImgURL = "https://sprites.test/shiny.png"
	id2, err := svc.Items.GetOrCreate(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	item, err := svc.Items.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, testutil.Pikachu.BaseExp, item.BaseExp)
	assert.Equal(t, testutil.Pikachu.SpriteImgURL, item.SpriteImgURL)

	_, err = svc.Items.GetOrCreate(ctx, models.ItemAttrs{})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = svc.Items.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListPolls(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	first := openPoll(t, svc, "Pikachu", "Charizard")
	require.NoError(t, svc.EndPoll(ctx, voter("creator"), first.ID))
	second := openPoll(t, svc, "Bulbasaur", "Charizard")

	all, err := svc.ListPolls(ctx, polls.FilterAll, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := svc.ListPolls(ctx, polls.FilterOpen, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)

	finished, err := svc.ListPolls(ctx, polls.FilterFinished, 0)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, first.ID, finished[0].ID)

	limited, err := svc.ListPolls(ctx, polls.FilterAll, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.ListPolls(ctx, "closed", 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p := openPoll(t, svc, "Pikachu", "Charizard")

	sum, err := svc.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", sum.ItemA.Item.Name)
	assert.Equal(t, "charizard", sum.ItemB.Item.Name)
	assert.Zero(t, sum.Total)
	assert.Empty(t, sum.Leader, "no leader on a tie")
	assert.False(t, sum.ItemA.Winning)
	assert.False(t, sum.ItemB.Winning)

	require.NoError(t, svc.CastVote(ctx, voter("1.1.1.1"), p.ID, p.ItemBID))
	require.NoError(t, svc.CastVote(ctx, voter("2.2.2.2"), p.ID, p.ItemBID))
	require.NoError(t, svc.CastVote(ctx, voter("3.3.3.3"), p.ID, p.ItemAID))

	open, err := svc.OpenSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, 1, open.ItemA.Votes)
	assert.Equal(t, 2, open.ItemB.Votes)
	assert.Equal(t, 3, open.Total)
	assert.Equal(t, p.ItemBID, open.Leader)
	assert.True(t, open.ItemB.Winning)
	assert.False(t, open.ItemA.Winning)

	_, err = svc.Summary(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.EndPoll(ctx, voter("creator"), p.ID))
	open, err = svc.OpenSummary(ctx)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	p, err := svc.CreatePoll(ctx, voter("creator"), "Pikachu", "Charizard")
	require.NoError(t, err)

	require.NoError(t, svc.CastVote(ctx, voter("1.2.3.4"), p.ID, p.ItemAID))
	n, err := svc.Tally(ctx, p.ID, p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = svc.CastVote(ctx, voter("1.2.3.4"), p.ID, p.ItemAID)
	assert.ErrorIs(t, err, models.ErrAlreadyVoted)
	n, err = svc.Tally(ctx, p.ID, p.ItemAID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, svc.CastVote(ctx, voter("5.6.7.8"), p.ID, p.ItemBID))
	n, err = svc.Tally(ctx, p.ID, p.ItemBID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, svc.EndPoll(ctx, voter("creator"), p.ID))
	open, err := svc.OpenPoll(ctx)
	require.NoError(t, err)
	assert.Nil(t, open)
}
