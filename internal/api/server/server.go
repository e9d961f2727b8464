package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/api/handlers"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/api/middleware"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/lastfm"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/mirror"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

type Server struct {
	cfg    *config.Config
	store  *store.Client
	fm     *lastfm.Client
	engine *mirror.Engine
	router *gin.Engine
}

func New(cfg *config.Config, st *store.Client, fm *lastfm.Client, engine *mirror.Engine) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		store:  st,
		fm:     fm,
		engine: engine,
		router: gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// The dashboard is served from a different origin.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.fm, s.store, s.cfg)
	mirrorHandler := handlers.NewMirrorHandler(s.store)
	syncHandler := handlers.NewSyncHandler(s.engine, s.cfg.Cron.Secret)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "scrobble-mirror"})
	})

	api := s.router.Group("/api")
	{
		// Upstream authorization round-trip
		api.GET("/login", authHandler.Login)
		api.GET("/callback", authHandler.Callback)

		// Mirror configuration
		api.POST("/start", mirrorHandler.Start)
		api.POST("/stop", mirrorHandler.Stop)
		api.GET("/status", mirrorHandler.Status)

		// Triggers: /sync is the dashboard's manual path, /cron is for the
		// external scheduler and requires the shared secret.
		api.POST("/sync", syncHandler.Sync)
		api.GET("/cron", middleware.RequireCronSecret(s.cfg.Cron.Secret), syncHandler.Cron)
	}
}

// Start runs the server on the configured address.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
