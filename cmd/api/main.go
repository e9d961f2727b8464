package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiserver "github.com/DiceboySeries/v0-scrobble-mirror-app/internal/api/server"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/lastfm"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/mirror"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Scrobble Mirror API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Persistence
	st, err := store.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	// 3. Upstream client + mirror engine
	fm := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	engine := mirror.NewEngine(st, fm, cfg)

	// 4. Metrics
	mirror.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// 5. Start Server
	srv := apiserver.New(cfg, st, fm, engine)

	log.Printf("API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
