package mirror

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/lastfm"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/models"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/store"
)

const defaultFetchLimit = 20

// Engine runs the mirroring loop for one user at a time: fetch the source
// account's recent plays, drop everything already in the destination's
// history, forward the rest and record each success.
type Engine struct {
	store *store.Client
	fm    *lastfm.Client
	clock Clock

	fetchLimit  int
	submitDelay time.Duration
}

func NewEngine(st *store.Client, fm *lastfm.Client, cfg *config.Config) *Engine {
	limit := cfg.Mirror.FetchLimit
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	return &Engine{
		store:       st,
		fm:          fm,
		clock:       RealClock{},
		fetchLimit:  limit,
		submitDelay: cfg.SubmitDelay(),
	}
}

// Result reports one sync run: how many events were forwarded and how
// many the fetched window contained.
type Result struct {
	Mirrored int `json:"mirrored"`
	Total    int `json:"total"`
}

// SyncUser mirrors the configured source account onto username's account.
// A missing or disabled config, or a missing session key, is a no-op with
// zero counts, not an error. Re-running against an unchanged source window
// mirrors nothing: the upstream timestamp is the dedup key.
func (e *Engine) SyncUser(username string) (Result, error) {
	cfg, err := e.store.GetMirrorConfig(username)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return Result{}, err
	}
	if cfg == nil || !cfg.Enabled {
		syncRuns.WithLabelValues("skipped").Inc()
		return Result{}, nil
	}

	sessionKey, err := e.store.GetSessionKey(username)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return Result{}, err
	}
	if sessionKey == "" {
		log.Printf("[Mirror] No session key for %s, skipping", username)
		syncRuns.WithLabelValues("skipped").Inc()
		return Result{}, nil
	}

	timer := prometheus.NewTimer(syncDuration)
	defer timer.ObserveDuration()

	// Propagate the source's now-playing status first. Best-effort: a
	// failure here must not stop the scrobble mirroring below.
	if np, err := e.fm.NowPlaying(cfg.SourceAccount); err != nil {
		log.Printf("[Mirror] Now-playing lookup failed for %s: %v", cfg.SourceAccount, err)
	} else if np != nil {
		if _, err := e.fm.UpdateNowPlaying(*np, sessionKey); err != nil {
			log.Printf("[Mirror] Now-playing update failed for %s: %v", username, err)
		}
	}

	recent, err := e.fm.RecentTracks(cfg.SourceAccount, e.fetchLimit)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return Result{}, err
	}

	history, err := e.store.GetHistory(username)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return Result{}, err
	}
	seen := make(map[string]struct{}, len(history))
	for _, t := range history {
		seen[t.Timestamp] = struct{}{}
	}

	// Filter pass. Now-playing placeholders have no real timestamp and are
	// not completed plays. Marking the timestamp seen here also dedups a
	// repeat within the same window before anything is persisted.
	var pending []lastfm.Track
	for _, t := range recent {
		if t.NowPlaying || t.Timestamp == "" {
			continue
		}
		if _, dup := seen[t.Timestamp]; dup {
			continue
		}
		seen[t.Timestamp] = struct{}{}
		pending = append(pending, t)
	}

	// The feed arrives newest first; submit chronologically so the
	// destination's history fills in play order.
	for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
		pending[i], pending[j] = pending[j], pending[i]
	}

	mirrored := 0
	for i, t := range pending {
		if i > 0 && e.submitDelay > 0 {
			e.clock.Sleep(e.submitDelay)
		}

		ok, err := e.fm.Scrobble(t, t.Timestamp, sessionKey)
		if err != nil {
			// Transport failure: leave the event unrecorded, the next
			// cycle picks it up again.
			log.Printf("[Mirror] Scrobble failed for %s (%s - %s): %v", username, t.Artist, t.Name, err)
			continue
		}
		if !ok {
			log.Printf("[Mirror] Upstream rejected scrobble for %s: %s - %s", username, t.Artist, t.Name)
			continue
		}

		entry := models.ScrobbledTrack{
			Artist:     t.Artist,
			Track:      t.Name,
			Album:      t.Album,
			Timestamp:  t.Timestamp,
			MirroredAt: e.clock.Now().UTC().Format(time.RFC3339),
		}
		if err := e.store.AppendHistory(username, entry); err != nil {
			syncRuns.WithLabelValues("error").Inc()
			return Result{Mirrored: mirrored, Total: len(recent)}, err
		}

		mirrored++
		mirroredTracks.Inc()
		log.Printf("[Mirror] Mirrored for %s: %s - %s", username, t.Artist, t.Name)
	}

	syncRuns.WithLabelValues("ok").Inc()
	return Result{Mirrored: mirrored, Total: len(recent)}, nil
}
