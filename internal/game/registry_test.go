package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(sink *eventSink) *Registry {
	r := NewRegistry()
	r.RevealDelay = 0
	r.SendToPlayerFn = sink.send
	return r
}

func TestCreateRoomCodes(t *testing.T) {
	r := newTestRegistry(newEventSink())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := r.CreateRoom(uuid.New(), "Host", false)
		assert.Len(t, s.Code, codeLength)
		assert.False(t, seen[s.Code], "room codes must be unique while open")
		seen[s.Code] = true
	}
}

func TestJoinRoomErrors(t *testing.T) {
	r := newTestRegistry(newEventSink())
	host := uuid.New()
	s := r.CreateRoom(host, "Host", false)

	_, err := r.JoinRoom(uuid.New(), "Guest", "NOPE!")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = r.JoinRoom(uuid.New(), "Guest", s.Code)
	require.NoError(t, err)

	_, err = r.JoinRoom(uuid.New(), "Third", s.Code)
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestRoomForTracksSeating(t *testing.T) {
	r := newTestRegistry(newEventSink())
	host, guest := uuid.New(), uuid.New()

	s := r.CreateRoom(host, "Host", false)
	got, ok := r.RoomFor(host)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = r.RoomFor(guest)
	assert.False(t, ok)

	_, err := r.JoinRoom(guest, "Guest", s.Code)
	require.NoError(t, err)
	got, ok = r.RoomFor(guest)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestPublicRoomsIndexLifecycle(t *testing.T) {
	r := newTestRegistry(newEventSink())

	// Private rooms never show up.
	r.CreateRoom(uuid.New(), "Hermit", false)
	assert.Empty(t, r.PublicRooms())

	host := uuid.New()
	s := r.CreateRoom(host, "Hosty", true)
	rooms := r.PublicRooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, s.Code, rooms[0].Code)
	assert.Equal(t, "Hosty", rooms[0].HostName)
	assert.Equal(t, 1, rooms[0].PlayerCount)

	// Filling the room removes it from the index.
	_, err := r.JoinRoom(uuid.New(), "Guest", s.Code)
	require.NoError(t, err)
	assert.Empty(t, r.PublicRooms())
}

func TestSubscribeReceivesSnapshotAndUpdates(t *testing.T) {
	r := newTestRegistry(newEventSink())
	host := uuid.New()
	r.CreateRoom(host, "Hosty", true)

	var got []Event
	r.Subscribe(uuid.New(), func(ev Event) { got = append(got, ev) })

	// Immediate snapshot on subscribe.
	require.Len(t, got, 1)
	assert.Equal(t, EventPublicRooms, got[0].Type)
	require.Len(t, got[0].Rooms, 1)

	// A new public room triggers an update.
	r.CreateRoom(uuid.New(), "Other", true)
	require.Len(t, got, 2)
	assert.Len(t, got[1].Rooms, 2)

	// A private room does not.
	r.CreateRoom(uuid.New(), "Hermit", false)
	assert.Len(t, got, 2)

	// Tearing down a public room does.
	r.Disconnect(host)
	require.Len(t, got, 3)
	assert.Len(t, got[2].Rooms, 1)
}

func TestUnsubscribeStopsUpdates(t *testing.T) {
	r := newTestRegistry(newEventSink())
	id := uuid.New()

	calls := 0
	r.Subscribe(id, func(Event) { calls++ })
	require.Equal(t, 1, calls)

	r.Unsubscribe(id)
	r.CreateRoom(uuid.New(), "Hosty", true)
	assert.Equal(t, 1, calls)

	// Unsubscribing twice is harmless.
	r.Unsubscribe(id)
}

func TestDisconnectDestroysRoomAndNotifies(t *testing.T) {
	sink := newEventSink()
	r := newTestRegistry(sink)
	host, guest := uuid.New(), uuid.New()

	s := r.CreateRoom(host, "Host", false)
	_, err := r.JoinRoom(guest, "Guest", s.Code)
	require.NoError(t, err)

	r.Disconnect(guest)

	assert.True(t, s.Destroyed())
	_, ok := r.Get(s.Code)
	assert.False(t, ok)
	_, ok = r.RoomFor(host)
	assert.False(t, ok, "both seats are released")

	assert.Len(t, sink.byType(host, EventOpponentLeft), 1)
	assert.Empty(t, sink.byType(guest, EventOpponentLeft))
}

func TestRemoveIdempotent(t *testing.T) {
	r := newTestRegistry(newEventSink())
	s := r.CreateRoom(uuid.New(), "Host", true)

	r.Remove(s.Code)
	assert.True(t, s.Destroyed())
	r.Remove(s.Code)
	assert.Empty(t, r.PublicRooms())
}
