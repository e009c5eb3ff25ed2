package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitduel/server/internal/models"
)

func TestProjectHidesOpponentHand(t *testing.T) {
	s, _, alice, bob := newTestSession(t)

	view := s.Project(alice.ID)
	require.Len(t, view.Players, 2)

	me, opp := view.Players[0], view.Players[1]
	assert.Equal(t, alice.ID, me.ID, "recipient is always listed first")
	assert.Equal(t, bob.ID, opp.ID)

	assert.Len(t, me.Hand, 5)
	assert.Equal(t, 5, me.HandSize)

	assert.Empty(t, opp.Hand, "opponent cards stay face down")
	assert.Equal(t, 5, opp.HandSize, "hand size is still public")
	assert.Equal(t, bob.HP, opp.HP)
	assert.Equal(t, bob.Wins, opp.Wins)
}

func TestProjectRevealsPlayedCardsOnlyTogether(t *testing.T) {
	s, _, alice, bob := newTestSession(t)

	first := currentPlayer(s)
	require.NoError(t, s.PlayCard(first.ID, 0))

	second := func() *models.Player {
		if first.ID == alice.ID {
			return bob
		}
		return alice
	}()

	// Only one card is down: the opponent must not see it.
	view := s.Project(second.ID)
	assert.Nil(t, view.Players[1].PlayedCard, "a lone played card stays hidden")
	// The player who played it still sees their own.
	own := s.Project(first.ID)
	assert.NotNil(t, own.Players[0].PlayedCard)

	require.NoError(t, s.PlayCard(second.ID, 0))

	// Both are down: everyone sees everything until resolution.
	view = s.Project(second.ID)
	assert.NotNil(t, view.Players[0].PlayedCard)
	assert.NotNil(t, view.Players[1].PlayedCard)
}

func TestProjectSnapshotIsStable(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	cur := currentPlayer(s)

	view := s.Project(cur.ID)
	want := make([]models.Card, 0, 5)
	for _, c := range view.Players[0].Hand {
		want = append(want, *c)
	}

	// Views sit in outbound queues; mutating the session afterwards must not
	// reach into an already-built snapshot.
	require.NoError(t, s.PlayCard(cur.ID, 0))

	require.Len(t, view.Players[0].Hand, 5)
	for i, c := range view.Players[0].Hand {
		assert.Equal(t, want[i], *c, "card %d shifted under the emitted view", i)
	}
}

func TestProjectSinglePlayerRoom(t *testing.T) {
	alice := models.NewPlayer(uuid.New(), "Alice")
	s := NewSession("SOLO1", true, alice)

	view := s.Project(alice.ID)
	require.Len(t, view.Players, 1)
	assert.Equal(t, "SOLO1", view.RoomCode)
	assert.Equal(t, uuid.Nil, view.CurrentPlayerID)
	assert.Contains(t, view.Log, "Waiting")
}
