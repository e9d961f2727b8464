package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/models"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

// MirrorHandler manages a user's mirror configuration.
type MirrorHandler struct {
	store *store.Client
}

func NewMirrorHandler(st *store.Client) *MirrorHandler {
	return &MirrorHandler{store: st}
}

type startRequest struct {
	Username      string `json:"username"`
	SourceAccount string `json:"source_account"`
}

// Start records the source account and enables mirroring for the user.
func (h *MirrorHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.SourceAccount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source account and username required"})
		return
	}

	if err := h.store.SetMirrorConfig(req.Username, req.SourceAccount); err != nil {
		log.Printf("[Mirror] Start failed for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start mirroring"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type stopRequest struct {
	Username string `json:"username"`
}

// Stop disables mirroring. The config and history stay around so a later
// Start picks up where the user left off.
func (h *MirrorHandler) Stop(c *gin.Context) {
	var req stopRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
		return
	}

	if err := h.store.SetMirrorEnabled(req.Username, false); err != nil {
		log.Printf("[Mirror] Stop failed for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop mirroring"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status returns the user's current config and mirror history.
func (h *MirrorHandler) Status(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username required"})
		return
	}

	cfg, err := h.store.GetMirrorConfig(username)
	if err != nil {
		log.Printf("[Mirror] Status failed for %s: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status"})
		return
	}

	history, err := h.store.GetHistory(username)
	if err != nil {
		log.Printf("[Mirror] Status failed for %s: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status"})
		return
	}
	if history == nil {
		history = []models.ScrobbledTrack{}
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg, "history": history})
}
