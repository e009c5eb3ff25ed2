package game

// EventType is an enum-like type for notifications pushed to clients.
type EventType string

const (
	EventRoomCreated   EventType = "room_created"        // private: room code for the creator
	EventJoinError     EventType = "join_error"          // private: join rejection with reason
	EventGameState     EventType = "update_game_state"   // private: per-player sanitized state
	EventRematchStatus EventType = "rematch_status"      // both players: rematch negotiation progress
	EventGameOver      EventType = "game_over"           // both players: result message + final state
	EventOpponentLeft  EventType = "opponent_left"       // remaining player: opponent disconnected
	EventPublicRooms   EventType = "update_public_rooms" // lobby subscribers: discovery index changed
)

// Event is the single wire format for everything the core pushes out. Fields
// are omitted when they don't apply to the event type.
type Event struct {
	Type     EventType    `json:"type"`
	RoomCode string       `json:"roomCode,omitempty"`
	Message  string       `json:"message,omitempty"`
	State    *PlayerView  `json:"state,omitempty"`
	Rooms    []PublicRoom `json:"rooms,omitempty"`
}
