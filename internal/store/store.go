package store

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/models"
)

// Key namespaces in the flat KV space.
const (
	sessionPrefix = "session:"
	mirrorPrefix  = "mirror:"
	enabledPrefix = "enabled:"
	historyPrefix = "history:"
)

const defaultHistoryCap = 100

// Client exposes the domain records over any Provider backend.
type Client struct {
	backend    Provider
	historyCap int
}

// New selects a backend from the configuration.
func New(cfg *config.Config) (*Client, error) {
	var backend Provider

	switch cfg.Store.Provider {
	case "memory":
		backend = NewMemoryProvider()
	case "s3":
		backend = NewS3Provider(cfg)
	case "gorm":
		db, err := OpenPostgres(cfg)
		if err != nil {
			return nil, err
		}
		backend, err = NewGormProvider(db)
		if err != nil {
			return nil, err
		}
	case "badger", "":
		b, err := NewBadgerProvider(cfg.Store.BadgerPath)
		if err != nil {
			return nil, err
		}
		backend = b
	default:
		return nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}

	return NewWithProvider(backend, cfg.Mirror.HistoryCap), nil
}

// NewWithProvider wraps an already-open backend. cap <= 0 falls back to
// the default history retention size.
func NewWithProvider(backend Provider, historyCap int) *Client {
	if historyCap <= 0 {
		historyCap = defaultHistoryCap
	}
	return &Client{backend: backend, historyCap: historyCap}
}

func (c *Client) Close() error {
	return c.backend.Close()
}

// GetSessionKey returns the stored session key for a user, or "" when the
// user never authorized (or the credential was cleared).
func (c *Client) GetSessionKey(user string) (string, error) {
	val, ok, err := c.backend.Get(sessionPrefix + user)
	if err != nil || !ok {
		return "", err
	}
	return string(val), nil
}

func (c *Client) SetSessionKey(user, sessionKey string) error {
	return c.backend.Set(sessionPrefix+user, []byte(sessionKey))
}

// GetMirrorConfig returns nil when the user never started mirroring.
func (c *Client) GetMirrorConfig(user string) (*models.MirrorConfig, error) {
	source, ok, err := c.backend.Get(mirrorPrefix + user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	enabled := false
	if val, ok, err := c.backend.Get(enabledPrefix + user); err != nil {
		return nil, err
	} else if ok {
		enabled = string(val) == "true"
	}

	return &models.MirrorConfig{
		SourceAccount: string(source),
		Enabled:       enabled,
	}, nil
}

// SetMirrorConfig records the source account and switches mirroring on.
func (c *Client) SetMirrorConfig(user, sourceAccount string) error {
	if err := c.backend.Set(mirrorPrefix+user, []byte(sourceAccount)); err != nil {
		return err
	}
	return c.SetMirrorEnabled(user, true)
}

func (c *Client) SetMirrorEnabled(user string, enabled bool) error {
	val := "false"
	if enabled {
		val = "true"
	}
	return c.backend.Set(enabledPrefix+user, []byte(val))
}

// GetHistory returns the mirror log for a user, newest first.
func (c *Client) GetHistory(user string) ([]models.ScrobbledTrack, error) {
	val, ok, err := c.backend.Get(historyPrefix + user)
	if err != nil || !ok {
		return nil, err
	}

	var history []models.ScrobbledTrack
	if err := json.Unmarshal(val, &history); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", user, err)
	}
	return history, nil
}

// AppendHistory prepends one entry. A duplicate timestamp is a silent
// no-op, and the log is trimmed to the retention cap, dropping oldest.
func (c *Client) AppendHistory(user string, track models.ScrobbledTrack) error {
	history, err := c.GetHistory(user)
	if err != nil {
		return err
	}

	for _, t := range history {
		if t.Timestamp == track.Timestamp {
			return nil
		}
	}

	history = append([]models.ScrobbledTrack{track}, history...)
	if len(history) > c.historyCap {
		history = history[:c.historyCap]
	}

	val, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", user, err)
	}
	return c.backend.Set(historyPrefix+user, val)
}

// ListActiveUsers scans the enabled namespace and returns every user with
// mirroring switched on. The result is a snapshot; enables and disables
// racing the scan may or may not be reflected.
func (c *Client) ListActiveUsers() ([]string, error) {
	keys, err := c.backend.List(enabledPrefix)
	if err != nil {
		return nil, err
	}

	var users []string
	for _, key := range keys {
		val, ok, err := c.backend.Get(key)
		if err != nil {
			return nil, err
		}
		if ok && string(val) == "true" {
			users = append(users, strings.TrimPrefix(key, enabledPrefix))
		}
	}
	return users, nil
}
