// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the duel handler. These provide more
// specific reasons for closure than standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Guest token was invalid and could not be replaced.
)
