// internal/handlers/rooms.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// ListRoomsHandler returns the current public-room discovery index, the same
// projection lobby subscribers receive over the websocket.
func ListRoomsHandler(srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms": srv.Registry.PublicRooms(),
		})
	}
}

// HealthzHandler is a trivial liveness probe.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
