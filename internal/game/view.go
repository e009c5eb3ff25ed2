package game

import (
	"github.com/google/uuid"

	"github.com/suitduel/server/internal/models"
)

// ViewPlayer is one seat as seen by a specific recipient. For the opponent
// the hand is always empty (only HandSize is honest) and PlayedCard is nil
// until the turn's reveal point.
type ViewPlayer struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	HP         int            `json:"hp"`
	Wins       int            `json:"wins"`
	Hand       []*models.Card `json:"hand"`
	HandSize   int            `json:"handSize"`
	PlayedCard *models.Card   `json:"playedCard"`
}

// PlayerView is the sanitized snapshot delivered to exactly one player. The
// recipient is always Players[0].
type PlayerView struct {
	RoomCode        string       `json:"roomCode"`
	Players         []ViewPlayer `json:"players"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	Log             string       `json:"log"`
}

// Project returns the recipient's view of the session.
func (s *Session) Project(recipientID uuid.UUID) PlayerView {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.projectLocked(recipientID)
}

// projectLocked builds the information-hiding view. The hand is copied out of
// the session so the emitted snapshot stays stable while it sits in a write
// queue. Assumes lock is held.
//
// The opponent's played card is revealed only while both played-card slots are
// occupied, i.e. from the reveal point until the turn's effects are applied.
func (s *Session) projectLocked(recipientID uuid.UUID) PlayerView {
	view := PlayerView{
		RoomCode:        s.Code,
		CurrentPlayerID: s.CurrentPlayerID,
		Log:             s.Log,
	}

	turnRevealed := len(s.Players) == 2 &&
		s.Players[0].HasPlayed() && s.Players[1].HasPlayed()

	for _, p := range s.Players {
		if p.ID != recipientID {
			continue
		}
		view.Players = append(view.Players, ViewPlayer{
			ID:         p.ID,
			Name:       p.Name,
			HP:         p.HP,
			Wins:       p.Wins,
			Hand:       append([]*models.Card(nil), p.Hand...),
			HandSize:   len(p.Hand),
			PlayedCard: p.PlayedCard,
		})
	}
	for _, p := range s.Players {
		if p.ID == recipientID {
			continue
		}
		opp := ViewPlayer{
			ID:       p.ID,
			Name:     p.Name,
			HP:       p.HP,
			Wins:     p.Wins,
			Hand:     []*models.Card{},
			HandSize: len(p.Hand),
		}
		if turnRevealed {
			opp.PlayedCard = p.PlayedCard
		}
		view.Players = append(view.Players, opp)
	}
	return view
}
