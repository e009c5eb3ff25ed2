package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suitduel/server/internal/cache"
	"github.com/suitduel/server/internal/deck"
	"github.com/suitduel/server/internal/models"
)

// Phase is the turn engine's state.
type Phase int

const (
	// PhaseWaitingForOpponent: room created, one seat filled.
	PhaseWaitingForOpponent Phase = iota
	// PhaseWaitingForPlay: game active, awaiting the current player's card.
	PhaseWaitingForPlay
	// PhaseResolvingReveal: both cards committed, reveal delay pending.
	PhaseResolvingReveal
	// PhaseGameOver: match decided, rematch negotiation possible.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForOpponent:
		return "waiting_for_opponent"
	case PhaseWaitingForPlay:
		return "waiting_for_play"
	case PhaseResolvingReveal:
		return "resolving_reveal"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// DefaultRevealDelay is how long both played cards stay face-up before their
// effects are applied. Presentational only; other rooms are never blocked.
const DefaultRevealDelay = 2 * time.Second

// Session holds the entire state of one two-player room in memory. All intents
// for a room serialize on Mu, so resolution passes never interleave.
type Session struct {
	Code     string
	IsPublic bool

	// Players has the creator at seat 0. Never more than two.
	Players []*models.Player
	Deck    []*models.Card

	Phase Phase

	// CurrentPlayerID identifies whose play intent is accepted. Nil UUID when
	// no game is active.
	CurrentPlayerID uuid.UUID
	Log             string

	// turnOpenerID is whoever acted first this turn; the next turn is handed
	// to the other player.
	turnOpenerID uuid.UUID

	revealTimer *time.Timer
	destroyed   bool
	actionIndex int

	rng         *rand.Rand
	revealDelay time.Duration

	Mu sync.Mutex

	// SendToPlayerFn delivers an event to one seated player's private channel.
	// It must not block; the transport layer owns buffering.
	SendToPlayerFn func(playerID uuid.UUID, ev Event)
}

// NewSession creates a room with the creator seated and no game running.
func NewSession(code string, isPublic bool, creator *models.Player) *Session {
	return &Session{
		Code:        code,
		IsPublic:    isPublic,
		Players:     []*models.Player{creator},
		Phase:       PhaseWaitingForOpponent,
		Log:         "Waiting for an opponent...",
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		revealDelay: DefaultRevealDelay,
	}
}

// SetRevealDelay overrides the reveal delay. Zero is allowed (tests resolve
// turns synchronously on the timer goroutine almost immediately).
func (s *Session) SetRevealDelay(d time.Duration) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.revealDelay = d
}

// SetRand replaces the session's randomness source, for deterministic tests.
func (s *Session) SetRand(r *rand.Rand) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.rng = r
}

// Join seats the second player and starts the game. ErrRoomFull if both seats
// are taken, ErrRoomNotFound once the room has been torn down.
func (s *Session) Join(p *models.Player) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.destroyed {
		return ErrRoomNotFound
	}
	if len(s.Players) >= 2 {
		return ErrRoomFull
	}
	s.Players = append(s.Players, p)
	s.logAction(p.ID, "player_join", nil)
	s.startGameLocked()
	return nil
}

// startGameLocked resets both players, shuffles a fresh deck, deals 5 cards
// each and picks the opening player at random. Win counts are deliberately
// left alone so they survive rematches. Assumes lock is held.
func (s *Session) startGameLocked() {
	s.Deck = deck.New()
	deck.Shuffle(s.Deck, s.rng)

	for _, p := range s.Players {
		p.HP = models.MaxHP
		p.Hand = make([]*models.Card, 0, 5)
		p.PlayedCard = nil
		p.ReadyForRematch = false
		for i := 0; i < 5; i++ {
			var card *models.Card
			card, s.Deck = deck.Draw(s.Deck)
			p.Hand = append(p.Hand, card)
		}
	}

	opener := s.Players[s.rng.Intn(len(s.Players))]
	s.CurrentPlayerID = opener.ID
	s.turnOpenerID = opener.ID
	s.Phase = PhaseWaitingForPlay
	s.Log = fmt.Sprintf("Game on! It is %s's turn.", opener.Name)

	s.logAction(uuid.Nil, "game_start", map[string]interface{}{"opener": opener.ID})
	s.broadcastStateLocked()
}

// PlayCard handles a play-card intent. Rejections leave every field of the
// session untouched.
func (s *Session) PlayCard(playerID uuid.UUID, cardIndex int) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.destroyed {
		return ErrRoomNotFound
	}
	if s.Phase != PhaseWaitingForPlay || playerID != s.CurrentPlayerID {
		return ErrInvalidTurn
	}
	player := s.playerByIDLocked(playerID)
	if player == nil || player.HasPlayed() {
		return ErrInvalidTurn
	}
	if cardIndex < 0 || cardIndex >= len(player.Hand) {
		return ErrInvalidCardIndex
	}

	player.PlayedCard = player.Hand[cardIndex]
	player.Hand = append(player.Hand[:cardIndex], player.Hand[cardIndex+1:]...)
	s.logAction(playerID, "play_card", map[string]interface{}{"index": cardIndex})

	opponent := s.opponentOfLocked(playerID)
	if !opponent.HasPlayed() {
		s.CurrentPlayerID = opponent.ID
		s.Log = fmt.Sprintf("Waiting for %s to play...", opponent.Name)
		s.broadcastStateLocked()
		return nil
	}

	// Both cards are down: reveal them, then resolve after the delay.
	s.Phase = PhaseResolvingReveal
	p1, p2 := s.Players[0], s.Players[1]
	s.Log = fmt.Sprintf("%s played %s | %s played %s",
		p1.Name, p1.PlayedCard, p2.Name, p2.PlayedCard)
	s.broadcastStateLocked()

	s.revealTimer = time.AfterFunc(s.revealDelay, s.resolveTurn)
	return nil
}

// resolveTurn runs on the reveal timer goroutine. It re-validates that the
// room still exists before touching anything, so a disconnect during the
// delay suppresses the resolution entirely.
func (s *Session) resolveTurn() {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.destroyed || s.Phase != PhaseResolvingReveal {
		return
	}
	s.revealTimer = nil
	s.resolveEffectsLocked()
}

// RequestRematch flags the sender as ready; once both players are ready the
// game restarts with win counts intact.
func (s *Session) RequestRematch(playerID uuid.UUID) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.destroyed {
		return ErrRoomNotFound
	}
	if s.Phase != PhaseGameOver {
		return ErrInvalidTurn
	}
	player := s.playerByIDLocked(playerID)
	if player == nil {
		return ErrInvalidTurn
	}
	player.ReadyForRematch = true
	s.logAction(playerID, "request_rematch", nil)

	for _, p := range s.Players {
		if !p.ReadyForRematch {
			s.sendToAllLocked(Event{
				Type:     EventRematchStatus,
				RoomCode: s.Code,
				Message:  fmt.Sprintf("%s wants a rematch.", player.Name),
			})
			return nil
		}
	}
	s.startGameLocked()
	return nil
}

// Destroy tears the session down: the pending reveal (if any) is cancelled and
// every seated player except leavingID is told the opponent left. Idempotent.
func (s *Session) Destroy(leavingID uuid.UUID) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.destroyed {
		return
	}
	s.destroyed = true
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
	s.logAction(leavingID, "room_destroyed", nil)
	log.Printf("Room %s destroyed.", s.Code)

	for _, p := range s.Players {
		if p.ID != leavingID {
			s.sendToPlayerLocked(p.ID, Event{Type: EventOpponentLeft, RoomCode: s.Code})
		}
	}
}

// Destroyed reports whether the session has been torn down.
func (s *Session) Destroyed() bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.destroyed
}

// Seated reports whether the given player occupies a seat in this room.
func (s *Session) Seated(playerID uuid.UUID) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.playerByIDLocked(playerID) != nil
}

// HostName returns the creator's display name.
func (s *Session) HostName() string {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.Players[0].Name
}

// PlayerCount returns the number of filled seats.
func (s *Session) PlayerCount() int {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return len(s.Players)
}

func (s *Session) playerByIDLocked(id uuid.UUID) *models.Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) opponentOfLocked(id uuid.UUID) *models.Player {
	for _, p := range s.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// broadcastStateLocked projects and delivers one view per seated player.
// Assumes lock is held.
func (s *Session) broadcastStateLocked() {
	for _, p := range s.Players {
		view := s.projectLocked(p.ID)
		s.sendToPlayerLocked(p.ID, Event{
			Type:     EventGameState,
			RoomCode: s.Code,
			State:    &view,
		})
	}
}

func (s *Session) sendToPlayerLocked(playerID uuid.UUID, ev Event) {
	if s.SendToPlayerFn == nil {
		return
	}
	s.SendToPlayerFn(playerID, ev)
}

func (s *Session) sendToAllLocked(ev Event) {
	for _, p := range s.Players {
		s.sendToPlayerLocked(p.ID, ev)
	}
}

// logAction pushes an action record onto the historian feed, if Redis is
// connected. Fire-and-forget; the session never depends on the result.
// Assumes lock is held.
func (s *Session) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	s.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.MatchActionRecord{
		RoomCode:      s.Code,
		ActionIndex:   s.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.MatchActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishMatchAction(ctx, rec); err != nil {
			log.Printf("Error publishing match action %d for room %s: %v", rec.ActionIndex, s.Code, err)
		}
	}(record)
}
