// internal/handlers/guest.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/suitduel/server/internal/auth"
)

const guestCookieName = "duel_token"

// EnsureGuest resolves the caller's player identity from the duel_token
// cookie, minting a fresh guest id (and cookie) when the token is missing or
// invalid. Must run before the websocket upgrade so the Set-Cookie header can
// still go out.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie(guestCookieName); err == nil {
		if sub, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, nil
			}
		}
		// Fall through and mint a new identity for malformed tokens.
	}

	id := uuid.New()
	token, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to mint guest token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
