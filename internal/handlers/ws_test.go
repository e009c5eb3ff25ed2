package handlers

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suitduel/server/internal/game"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Guest", displayName(""))
	assert.Equal(t, "Guest", displayName("   "))
	assert.Equal(t, "Alice", displayName("  Alice "))
	assert.Len(t, displayName("abcdefghijklmnopqrstuvwxyz123"), 24)
}

// drain pulls everything currently buffered for a connection.
func drain(pc *playerConn) []interface{} {
	var out []interface{}
	for {
		select {
		case msg := <-pc.out:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestSendDropsWhenChannelFull(t *testing.T) {
	srv := NewServer()
	pc := &playerConn{playerID: uuid.New(), out: make(chan interface{}, 1), cancel: func() {}}
	srv.register(pc)

	srv.send(pc.playerID, "first")
	srv.send(pc.playerID, "overflow") // dropped, must not block

	msgs := drain(pc)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0])
}

func TestRegisterReplacesOldConnection(t *testing.T) {
	srv := NewServer()
	id := uuid.New()

	cancelled := false
	old := &playerConn{playerID: id, out: make(chan interface{}, 1), cancel: func() { cancelled = true }}
	srv.register(old)

	fresh := &playerConn{playerID: id, out: make(chan interface{}, 1), cancel: func() {}}
	srv.register(fresh)
	assert.True(t, cancelled, "stale connection gets cancelled")

	srv.send(id, "hello")
	assert.Empty(t, drain(old))
	assert.Len(t, drain(fresh), 1)

	// Unregistering the stale conn must not evict the fresh one.
	srv.unregister(old)
	srv.send(id, "again")
	assert.Len(t, drain(fresh), 1)
}

func TestHandleIntentRoomLifecycle(t *testing.T) {
	srv := NewServer()
	logger := testLogger()
	host, guest := uuid.New(), uuid.New()

	hostConn := &playerConn{playerID: host, out: make(chan interface{}, 16), cancel: func() {}}
	guestConn := &playerConn{playerID: guest, out: make(chan interface{}, 16), cancel: func() {}}
	srv.register(hostConn)
	srv.register(guestConn)

	handleIntent(srv, host, IntentMessage{Type: "create_room", PlayerName: "Host"}, logger)

	msgs := drain(hostConn)
	require.Len(t, msgs, 1)
	created, ok := msgs[0].(game.Event)
	require.True(t, ok)
	require.Equal(t, game.EventRoomCreated, created.Type)
	require.NotEmpty(t, created.RoomCode)

	// Creating twice is rejected.
	handleIntent(srv, host, IntentMessage{Type: "create_room", PlayerName: "Host"}, logger)
	require.Len(t, drain(hostConn), 1)

	// Joining a bogus code reports join_error.
	handleIntent(srv, guest, IntentMessage{Type: "join_room", PlayerName: "Guest", RoomCode: "ZZZZZ"}, logger)
	msgs = drain(guestConn)
	require.Len(t, msgs, 1)
	joinErr, ok := msgs[0].(game.Event)
	require.True(t, ok)
	assert.Equal(t, game.EventJoinError, joinErr.Type)

	// A real join starts the game: both players get a state broadcast.
	handleIntent(srv, guest, IntentMessage{Type: "join_room", PlayerName: "Guest", RoomCode: created.RoomCode}, logger)
	assert.NotEmpty(t, drain(hostConn))
	assert.NotEmpty(t, drain(guestConn))
}

func TestHandleIntentPing(t *testing.T) {
	srv := NewServer()
	id := uuid.New()
	pc := &playerConn{playerID: id, out: make(chan interface{}, 4), cancel: func() {}}
	srv.register(pc)

	handleIntent(srv, id, IntentMessage{Type: "ping"}, testLogger())

	msgs := drain(pc)
	require.Len(t, msgs, 1)
	pong, ok := msgs[0].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "pong", pong["type"])
}
