package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/lastfm"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

// AuthHandler runs the upstream authorization round-trip: redirect the
// user to the Last.fm grant page, then swap the returned token for a
// session key and keep it.
type AuthHandler struct {
	fm    *lastfm.Client
	store *store.Client
	cfg   *config.Config
}

func NewAuthHandler(fm *lastfm.Client, st *store.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{fm: fm, store: st, cfg: cfg}
}

// Login redirects the browser to the upstream authorization page.
func (h *AuthHandler) Login(c *gin.Context) {
	callbackURL := h.cfg.Server.PublicURL + "/api/callback"
	c.Redirect(http.StatusFound, h.fm.AuthURL(callbackURL))
}

// Callback receives the one-time token, exchanges it for a session key,
// stores the credential and sends the user on to the dashboard.
func (h *AuthHandler) Callback(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/?error=no_token")
		return
	}

	sessionKey, username, err := h.fm.GetSession(token)
	if err != nil {
		log.Printf("[Auth] Token exchange failed: %v", err)
		c.Redirect(http.StatusFound, "/?error=auth_failed")
		return
	}

	if err := h.store.SetSessionKey(username, sessionKey); err != nil {
		log.Printf("[Auth] Failed to store session key for %s: %v", username, err)
		c.Redirect(http.StatusFound, "/?error=auth_failed")
		return
	}

	log.Printf("[Auth] Session stored for %s", username)
	c.Redirect(http.StatusFound, "/dashboard?username="+username)
}
