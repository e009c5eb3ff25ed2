// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/suitduel/server/internal/game"
	"github.com/suitduel/server/internal/middleware"
)

// IntentMessage is the fixed schema for every client -> server message.
// Fields irrelevant to a given intent type are ignored; required fields are
// validated here before anything reaches a room session.
type IntentMessage struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName,omitempty"`
	RoomCode   string `json:"roomCode,omitempty"`
	CardIndex  *int   `json:"cardIndex,omitempty"`
	Public     bool   `json:"public,omitempty"`
}

// WSHandler upgrades the HTTP connection to the duel websocket. Each
// connection is one player; closing it counts as the disconnect intent.
func WSHandler(logger *logrus.Logger, srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Identity must be settled before Accept hijacks the response.
		playerID, err := EnsureGuest(w, r)
		if err != nil {
			logger.Warnf("Guest authentication failed: %v", err)
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"duel"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "duel" {
			c.Close(BadSubprotocolError, "client must speak the duel subprotocol")
			return
		}
		logger.Infof("Player %s connected from %s", playerID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		pc := &playerConn{
			playerID: playerID,
			out:      make(chan interface{}, 16),
			cancel:   cancel,
		}
		srv.register(pc)

		go writePump(ctx, c, pc, logger)

		readErr := readIntents(ctx, c, srv, playerID, logger)

		// Cleanup: the player's room (if any) dies with the connection.
		srv.Registry.Unsubscribe(playerID)
		srv.Registry.Disconnect(playerID)
		srv.unregister(pc)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// writePump drains the player's outbound channel onto the socket, keeping a
// single writer per connection.
func writePump(ctx context.Context, c *websocket.Conn, pc *playerConn, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-pc.out:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Errorf("Failed to marshal outbound message for player %s: %v", pc.playerID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Failed to write to player %s: %v", pc.playerID, err)
				return
			}
		}
	}
}

// readIntents is the per-connection read loop: unmarshal, validate, route.
func readIntents(ctx context.Context, c *websocket.Conn, srv *Server, playerID uuid.UUID, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg IntentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from player %s: %v", playerID, err)
			srv.send(playerID, errorMessage("Invalid JSON format."))
			continue
		}
		logger.Debugf("Intent '%s' from player %s", msg.Type, playerID)

		handleIntent(srv, playerID, msg, logger)
	}
}

// handleIntent routes one validated intent to the registry or session.
// Rejected intents never mutate room state.
func handleIntent(srv *Server, playerID uuid.UUID, msg IntentMessage, logger *logrus.Logger) {
	switch msg.Type {
	case "create_room":
		if _, seated := srv.Registry.RoomFor(playerID); seated {
			srv.send(playerID, errorMessage("You are already in a room."))
			return
		}
		s := srv.Registry.CreateRoom(playerID, displayName(msg.PlayerName), msg.Public)
		srv.send(playerID, game.Event{Type: game.EventRoomCreated, RoomCode: s.Code})

	case "join_room":
		if _, seated := srv.Registry.RoomFor(playerID); seated {
			srv.send(playerID, game.Event{Type: game.EventJoinError, Message: "You are already in a room."})
			return
		}
		_, err := srv.Registry.JoinRoom(playerID, displayName(msg.PlayerName), msg.RoomCode)
		switch {
		case errors.Is(err, game.ErrRoomNotFound):
			srv.send(playerID, game.Event{Type: game.EventJoinError, Message: "No room with that code."})
		case errors.Is(err, game.ErrRoomFull):
			srv.send(playerID, game.Event{Type: game.EventJoinError, Message: "That room is already full."})
		case err != nil:
			srv.send(playerID, game.Event{Type: game.EventJoinError, Message: "Could not join the room."})
		}

	case "play_card":
		if msg.CardIndex == nil {
			logger.Warnf("play_card from %s without cardIndex", playerID)
			return
		}
		s, ok := srv.Registry.Get(msg.RoomCode)
		if !ok || !s.Seated(playerID) {
			return
		}
		if err := s.PlayCard(playerID, *msg.CardIndex); err != nil {
			// Invalid plays are a silent no-op: state is untouched and the
			// client's view is already authoritative.
			logger.Debugf("Rejected play from %s in room %s: %v", playerID, msg.RoomCode, err)
		}

	case "request_rematch":
		s, ok := srv.Registry.Get(msg.RoomCode)
		if !ok || !s.Seated(playerID) {
			return
		}
		if err := s.RequestRematch(playerID); err != nil {
			srv.send(playerID, errorMessage("No finished game to rematch."))
		}

	case "subscribe_lobby":
		srv.Registry.Subscribe(playerID, func(ev game.Event) {
			srv.send(playerID, ev)
		})

	case "unsubscribe_lobby":
		srv.Registry.Unsubscribe(playerID)

	case "ping":
		srv.send(playerID, map[string]string{"type": "pong"})

	default:
		logger.Warnf("Unknown intent type '%s' from player %s", msg.Type, playerID)
		srv.send(playerID, errorMessage("Unknown intent type: "+msg.Type))
	}
}

func errorMessage(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":    "error",
		"message": text,
	}
}

// displayName keeps names sane for log lines and opponent views.
func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Guest"
	}
	if len(name) > 24 {
		name = name[:24]
	}
	return name
}
