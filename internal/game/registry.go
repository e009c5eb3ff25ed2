package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suitduel/server/internal/models"
)

// PublicRoom is the discovery-index projection of an open public room.
type PublicRoom struct {
	Code        string `json:"code"`
	HostName    string `json:"hostName"`
	PlayerCount int    `json:"playerCount"`
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 5

// Registry owns the room-code -> session mapping and the discovery index.
// It is the only state shared across rooms; create/join/remove serialize on
// its mutex, while per-room intents serialize on each session's own lock.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]*Session
	byPlayer map[uuid.UUID]string
	subs     map[uuid.UUID]func(Event)
	rng      *rand.Rand

	// RevealDelay is applied to every new session. Tests shrink it.
	RevealDelay time.Duration

	// SendToPlayerFn is handed to every session it creates. Must not block.
	SendToPlayerFn func(playerID uuid.UUID, ev Event)
}

// NewRegistry returns an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]*Session),
		byPlayer:    make(map[uuid.UUID]string),
		subs:        make(map[uuid.UUID]func(Event)),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		RevealDelay: DefaultRevealDelay,
	}
}

// CreateRoom opens a room with a fresh unique code and the caller in seat 0.
func (r *Registry) CreateRoom(playerID uuid.UUID, playerName string, isPublic bool) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.newCodeLocked()
	s := NewSession(code, isPublic, models.NewPlayer(playerID, playerName))
	s.SetRevealDelay(r.RevealDelay)
	s.SendToPlayerFn = r.SendToPlayerFn

	r.rooms[code] = s
	r.byPlayer[playerID] = code
	log.Printf("Room %s created by %s (public: %v).", code, playerName, isPublic)

	if isPublic {
		r.notifySubscribersLocked()
	}
	return s
}

// JoinRoom seats the caller in an existing room and starts the game. Returns
// ErrRoomNotFound or ErrRoomFull without side effects on failure.
func (r *Registry) JoinRoom(playerID uuid.UUID, playerName, code string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	wasPublic := s.IsPublic
	if err := s.Join(models.NewPlayer(playerID, playerName)); err != nil {
		return nil, err
	}
	r.byPlayer[playerID] = code
	log.Printf("Room %s: %s joined, game started.", code, playerName)

	// The room just filled up, so it leaves the discovery index.
	if wasPublic {
		r.notifySubscribersLocked()
	}
	return s, nil
}

// Get looks up a session by code.
func (r *Registry) Get(code string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rooms[code]
	return s, ok
}

// RoomFor returns the session the player is seated in, if any.
func (r *Registry) RoomFor(playerID uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	s, ok := r.rooms[code]
	return s, ok
}

// Disconnect destroys the room the player is seated in, notifying the
// remaining player and the lobby. No-op for players without a room.
func (r *Registry) Disconnect(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.byPlayer[playerID]
	if !ok {
		return
	}
	r.removeLocked(code, playerID)
}

// Remove evicts a room and its discovery entry. Idempotent.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(code, uuid.Nil)
}

// removeLocked tears down a session. leavingID marks who triggered it so the
// departure notice skips them. Assumes lock is held.
func (r *Registry) removeLocked(code string, leavingID uuid.UUID) {
	s, ok := r.rooms[code]
	if !ok {
		return
	}
	delete(r.rooms, code)
	for _, p := range s.Players {
		delete(r.byPlayer, p.ID)
	}
	wasListed := s.IsPublic
	s.Destroy(leavingID)
	if wasListed {
		r.notifySubscribersLocked()
	}
}

// PublicRooms snapshots the discovery index: public rooms still waiting for
// an opponent.
func (r *Registry) PublicRooms() []PublicRoom {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publicRoomsLocked()
}

func (r *Registry) publicRoomsLocked() []PublicRoom {
	list := make([]PublicRoom, 0)
	for _, s := range r.rooms {
		if !s.IsPublic {
			continue
		}
		if n := s.PlayerCount(); n < 2 {
			list = append(list, PublicRoom{
				Code:        s.Code,
				HostName:    s.HostName(),
				PlayerCount: n,
			})
		}
	}
	return list
}

// Subscribe registers a lobby viewer; it immediately receives the current
// index and every subsequent change until Unsubscribe.
func (r *Registry) Subscribe(id uuid.UUID, fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[id] = fn
	fn(Event{Type: EventPublicRooms, Rooms: r.publicRoomsLocked()})
}

// Unsubscribe drops a lobby viewer. Idempotent.
func (r *Registry) Unsubscribe(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// notifySubscribersLocked pushes the fresh index to every lobby viewer.
// Assumes lock is held; subscriber callbacks must not block.
func (r *Registry) notifySubscribersLocked() {
	if len(r.subs) == 0 {
		return
	}
	ev := Event{Type: EventPublicRooms, Rooms: r.publicRoomsLocked()}
	for _, fn := range r.subs {
		fn(ev)
	}
}

// newCodeLocked generates a short room code, retrying until it collides with
// nothing currently open. Assumes lock is held.
func (r *Registry) newCodeLocked() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[r.rng.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, exists := r.rooms[code]; !exists {
			return code
		}
	}
}
