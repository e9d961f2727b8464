package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/lastfm"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/mirror"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

func newMirrorRouter() (*gin.Engine, *store.Client) {
	gin.SetMode(gin.TestMode)

	st := store.NewWithProvider(store.NewMemoryProvider(), 100)
	h := NewMirrorHandler(st)

	r := gin.New()
	r.POST("/api/start", h.Start)
	r.POST("/api/stop", h.Stop)
	r.GET("/api/status", h.Status)
	return r, st
}

func TestStartStopStatus(t *testing.T) {
	r, st := newMirrorRouter()

	// Start
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/start",
		strings.NewReader(`{"username":"alice","source_account":"bob"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body)
	}

	cfg, _ := st.GetMirrorConfig("alice")
	if cfg == nil || cfg.SourceAccount != "bob" || !cfg.Enabled {
		t.Fatalf("config after start = %+v", cfg)
	}

	// Status
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/status?username=alice", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status status = %d", w.Code)
	}
	var status struct {
		Config struct {
			SourceAccount string `json:"source_account"`
			Enabled       bool   `json:"enabled"`
		} `json:"config"`
		History []any `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Config.SourceAccount != "bob" || !status.Config.Enabled {
		t.Fatalf("status config = %+v", status.Config)
	}
	if status.History == nil {
		t.Fatal("history should be an empty array, not null")
	}

	// Stop
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/stop", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stop status = %d", w.Code)
	}

	cfg, _ = st.GetMirrorConfig("alice")
	if cfg == nil || cfg.Enabled {
		t.Fatalf("config after stop = %+v", cfg)
	}
}

func TestStartValidation(t *testing.T) {
	r, _ := newMirrorRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/start", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("start without source_account = %d, want 400", w.Code)
	}
}

func newSyncRouter(cronSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	st := store.NewWithProvider(store.NewMemoryProvider(), 100)
	fm := lastfm.New("test-key", "test-secret")
	cfg := &config.Config{}
	engine := mirror.NewEngine(st, fm, cfg)
	h := NewSyncHandler(engine, cronSecret)

	r := gin.New()
	r.POST("/api/sync", h.Sync)
	return r
}

func TestSyncRejectsWrongBearer(t *testing.T) {
	r := newSyncRouter("shh")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sync", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSyncWithoutHeaderIsManualPath(t *testing.T) {
	r := newSyncRouter("shh")

	// No Authorization header at all: the dashboard path, always allowed.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sync", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	var resp struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		UsersSynced int    `json:"usersSynced"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.UsersSynced != 0 {
		t.Fatalf("response = %+v", resp)
	}
}
