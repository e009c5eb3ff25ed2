package models

import "github.com/google/uuid"

// MaxHP is the hit point ceiling and the value every player starts a game at.
const MaxHP = 25

// Player is one seat in a duel room. All fields are mutated only by the
// owning game session while its lock is held.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	HP   int       `json:"hp"`
	Hand []*Card   `json:"hand"`

	// PlayedCard is the card committed for the current turn, nil until the
	// player has acted. Cleared when the turn resolves.
	PlayedCard *Card `json:"playedCard"`

	// Wins accumulates across rematches within the same room.
	Wins int `json:"wins"`

	ReadyForRematch bool `json:"readyForRematch"`
}

// NewPlayer seats a player with full hp and an empty hand.
func NewPlayer(id uuid.UUID, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		HP:   MaxHP,
		Hand: []*Card{},
	}
}

// HasPlayed reports whether the player has already committed a card this turn.
func (p *Player) HasPlayed() bool {
	return p.PlayedCard != nil
}
