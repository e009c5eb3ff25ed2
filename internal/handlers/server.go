// internal/handlers/server.go
package handlers

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/suitduel/server/internal/game"
)

// Server owns the room registry and the live connection for each player.
// Events produced by the core are routed here to the right websocket.
type Server struct {
	Registry *game.Registry

	mu    sync.Mutex
	conns map[uuid.UUID]*playerConn
}

// playerConn is one player's websocket presence. Outbound traffic funnels
// through out so there is a single writer per socket.
type playerConn struct {
	playerID uuid.UUID
	out      chan interface{}
	cancel   func()
}

// NewServer wires a registry to the connection table.
func NewServer() *Server {
	s := &Server{
		Registry: game.NewRegistry(),
		conns:    make(map[uuid.UUID]*playerConn),
	}
	s.Registry.SendToPlayerFn = func(playerID uuid.UUID, ev game.Event) {
		s.send(playerID, ev)
	}
	return s
}

// send pushes a message onto the player's outbound channel non-blockingly.
// The core calls this while holding room locks, so it must never stall.
func (s *Server) send(playerID uuid.UUID, msg interface{}) {
	s.mu.Lock()
	pc := s.conns[playerID]
	s.mu.Unlock()
	if pc == nil {
		return
	}
	select {
	case pc.out <- msg:
	default:
		log.Printf("WARNING: outbound channel for player %s full, dropped message.", playerID)
	}
}

// register replaces any existing connection for the player, cancelling the
// old one.
func (s *Server) register(pc *playerConn) {
	s.mu.Lock()
	old := s.conns[pc.playerID]
	s.conns[pc.playerID] = pc
	s.mu.Unlock()

	if old != nil && old != pc {
		old.cancel()
	}
}

// unregister drops the connection if it is still the current one for the
// player.
func (s *Server) unregister(pc *playerConn) {
	s.mu.Lock()
	if s.conns[pc.playerID] == pc {
		delete(s.conns, pc.playerID)
	}
	s.mu.Unlock()
}
