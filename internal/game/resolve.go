package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/suitduel/server/internal/deck"
	"github.com/suitduel/server/internal/models"
)

// resolveEffectsLocked applies both played cards simultaneously. Every delta
// is computed from the pre-resolution snapshot before anything is applied, so
// the outcome cannot depend on seat order. Assumes lock is held.
func (s *Session) resolveEffectsLocked() {
	p1, p2 := s.Players[0], s.Players[1]

	type play struct {
		owner *models.Player
		kind  models.CardType
		value int
	}
	plays := [2]play{
		{p1, p1.PlayedCard.Type(), p1.PlayedCard.Value()},
		{p2, p2.PlayedCard.Type(), p2.PlayedCard.Value()},
	}

	deltas := map[uuid.UUID]int{p1.ID: 0, p2.ID: 0}
	var messages []string

	for i, me := range plays {
		them := plays[1-i]
		switch me.kind {
		case models.TypeAttack:
			// A counter fully negates an incoming attack.
			if them.kind != models.TypeCounter {
				deltas[them.owner.ID] -= me.value
				messages = append(messages, fmt.Sprintf("%s deals %d damage", me.owner.Name, me.value))
			}
		case models.TypeCounter:
			// Riposte: the blocked attacker eats the counter's value.
			if them.kind == models.TypeAttack {
				deltas[them.owner.ID] -= me.value
				messages = append(messages, fmt.Sprintf("%s ripostes for %d damage", me.owner.Name, me.value))
			}
		case models.TypeHeal:
			deltas[me.owner.ID] += me.value
			messages = append(messages, fmt.Sprintf("%s restores %d hp", me.owner.Name, me.value))
		}
	}

	for _, p := range s.Players {
		p.HP = clampHP(p.HP + deltas[p.ID])
	}

	if len(messages) > 0 {
		s.Log = strings.Join(messages, ", ")
	} else {
		s.Log = "Nothing happens; both players are unharmed."
	}
	s.logAction(uuid.Nil, "turn_resolved", map[string]interface{}{
		"hp": map[string]int{p1.ID.String(): p1.HP, p2.ID.String(): p2.HP},
	})

	if p1.HP <= 0 || p2.HP <= 0 {
		s.endGameLocked(s.decideWinnerLocked())
		return
	}

	// Clean up the table and draw back up.
	p1.PlayedCard = nil
	p2.PlayedCard = nil
	for _, p := range s.Players {
		if len(s.Deck) == 0 {
			continue
		}
		var card *models.Card
		card, s.Deck = deck.Draw(s.Deck)
		p.Hand = append(p.Hand, card)
	}

	if len(p1.Hand) == 0 && len(p2.Hand) == 0 {
		s.Log = "The deck has run dry."
		s.endGameLocked(nil)
		return
	}

	// Initiative alternates: whoever did not open this turn opens the next.
	next := s.opponentOfLocked(s.turnOpenerID)
	s.turnOpenerID = next.ID
	s.CurrentPlayerID = next.ID
	s.Phase = PhaseWaitingForPlay
	s.Log += fmt.Sprintf(" | It is now %s's turn.", next.Name)
	s.broadcastStateLocked()
}

// decideWinnerLocked picks the survivor with strictly greater hp, or nil for
// a draw. Only meaningful right after resolution when someone is at 0.
func (s *Session) decideWinnerLocked() *models.Player {
	p1, p2 := s.Players[0], s.Players[1]
	switch {
	case p1.HP > p2.HP:
		return p1
	case p2.HP > p1.HP:
		return p2
	default:
		return nil
	}
}

// endGameLocked finishes the match: credits the winner (if any), notifies both
// players with the final snapshot and parks the session in GameOver so a
// rematch can be negotiated. Assumes lock is held.
func (s *Session) endGameLocked(winner *models.Player) {
	message := s.Log + " | It's a draw!"
	if winner != nil {
		winner.Wins++
		message = fmt.Sprintf("%s | %s wins!", s.Log, winner.Name)
	}
	s.Log = message
	s.Phase = PhaseGameOver
	s.CurrentPlayerID = uuid.Nil

	winnerID := uuid.Nil
	if winner != nil {
		winnerID = winner.ID
	}
	s.logAction(uuid.Nil, "game_over", map[string]interface{}{"winner": winnerID})

	for _, p := range s.Players {
		view := s.projectLocked(p.ID)
		s.sendToPlayerLocked(p.ID, Event{
			Type:     EventGameOver,
			RoomCode: s.Code,
			Message:  message,
			State:    &view,
		})
	}
}

func clampHP(hp int) int {
	if hp < 0 {
		return 0
	}
	if hp > models.MaxHP {
		return models.MaxHP
	}
	return hp
}
