package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/mirror"
)

// SyncHandler exposes the manual and scheduled sync triggers.
type SyncHandler struct {
	engine     *mirror.Engine
	cronSecret string
}

func NewSyncHandler(engine *mirror.Engine, cronSecret string) *SyncHandler {
	return &SyncHandler{engine: engine, cronSecret: cronSecret}
}

type syncRequest struct {
	Username string `json:"username"`
}

// Sync runs one sync pass. With a username it syncs that user, without it
// syncs every active user. The dashboard calls this without credentials;
// an external scheduler may also call it with the cron bearer secret, and
// a present-but-wrong header is rejected.
func (h *SyncHandler) Sync(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && h.cronSecret != "" && authHeader != "Bearer "+h.cronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req syncRequest
	// An empty or absent body means "sync everyone".
	_ = c.ShouldBindJSON(&req)

	if req.Username == "" {
		summary, err := h.engine.SyncAll()
		if err != nil {
			log.Printf("[Sync] Batch sync failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync tracks"})
			return
		}
		if summary.UsersSynced == 0 {
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"message":     "No users with mirroring enabled",
				"usersSynced": 0,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"usersSynced":   summary.UsersSynced,
			"totalMirrored": summary.TotalMirrored,
			"totalTracks":   summary.TotalTracks,
			"results":       summary.Results,
		})
		return
	}

	result, err := h.engine.SyncUser(req.Username)
	if err != nil {
		log.Printf("[Sync] Sync failed for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync tracks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"mirrored": result.Mirrored,
		"total":    result.Total,
	})
}

// Cron is the scheduled-trigger variant: batch sync only, gated by the
// cron-secret middleware on the route.
func (h *SyncHandler) Cron(c *gin.Context) {
	log.Println("[Sync] Cron trigger started")

	summary, err := h.engine.SyncAll()
	if err != nil {
		log.Printf("[Sync] Cron trigger failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cron job failed"})
		return
	}

	log.Printf("[Sync] Cron trigger completed, mirrored %d tracks for %d users",
		summary.TotalMirrored, summary.UsersSynced)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"users":    summary.UsersSynced,
		"mirrored": summary.TotalMirrored,
	})
}
