package lastfm

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

const userAgent = "ScrobbleMirror/1.0"

// Client talks to the audioscrobbler web API. Write calls are signed with
// the shared secret; read calls only need the api_key.
type Client struct {
	apiKey string
	secret string

	// BaseURL is overridable for tests.
	BaseURL string

	http *http.Client
}

func New(apiKey, secret string) *Client {
	return &Client{
		apiKey:  apiKey,
		secret:  secret,
		BaseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL returns the page a user visits to authorize the application.
// The upstream redirects back to callbackURL with a one-time token.
func (c *Client) AuthURL(callbackURL string) string {
	return fmt.Sprintf("https://www.last.fm/api/auth/?api_key=%s&cb=%s",
		c.apiKey, url.QueryEscape(callbackURL))
}

// GetSession exchanges a one-time auth token for a session key and the
// account name it belongs to. The raw token is never logged in full.
func (c *Client) GetSession(token string) (sessionKey, username string, err error) {
	log.Printf("[Lastfm] Exchanging auth token %s... for a session", tokenPrefix(token))

	params := map[string]string{
		"method":  "auth.getSession",
		"api_key": c.apiKey,
		"token":   token,
	}
	sig := Sign(params, c.secret)

	u, _ := url.Parse(c.BaseURL)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("api_sig", sig)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, _ := http.NewRequest("GET", u.String(), nil)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("auth.getSession: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
		Session struct {
			Name string `json:"name"`
			Key  string `json:"key"`
		} `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("auth.getSession decode: %w", err)
	}
	if payload.Error != 0 {
		return "", "", &AuthError{Code: payload.Error, Message: payload.Message}
	}

	return payload.Session.Key, payload.Session.Name, nil
}

// RecentTracks fetches up to limit entries from a user's feed, newest first.
// Entries flagged "now playing" are included with an empty Timestamp; the
// caller decides what to do with them.
func (c *Client) RecentTracks(user string, limit int) ([]Track, error) {
	u, _ := url.Parse(c.BaseURL)
	q := u.Query()
	q.Set("method", "user.getrecenttracks")
	q.Set("user", user)
	q.Set("api_key", c.apiKey)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, _ := http.NewRequest("GET", u.String(), nil)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user.getrecenttracks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("user.getrecenttracks status %d", resp.StatusCode)
	}

	var payload struct {
		Error        int    `json:"error"`
		Message      string `json:"message"`
		RecentTracks struct {
			Track json.RawMessage `json:"track"`
		} `json:"recenttracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("user.getrecenttracks decode: %w", err)
	}
	if payload.Error != 0 {
		return nil, fmt.Errorf("user.getrecenttracks error %d: %s", payload.Error, payload.Message)
	}

	return decodeTrackList(payload.RecentTracks.Track)
}

// NowPlaying returns the track a user is listening to right now, or nil.
// Only an entry the upstream explicitly flags as now-playing counts; the
// merely most recent scrobble does not.
func (c *Client) NowPlaying(user string) (*Track, error) {
	tracks, err := c.RecentTracks(user, 1)
	if err != nil {
		return nil, err
	}
	for i := range tracks {
		if tracks[i].NowPlaying {
			return &tracks[i], nil
		}
	}
	return nil, nil
}

// Scrobble submits one completed play to the account behind sessionKey.
// An upstream error payload yields (false, nil); only transport-level
// failures return an error.
func (c *Client) Scrobble(t Track, timestamp, sessionKey string) (bool, error) {
	params := map[string]string{
		"method":       "track.scrobble",
		"api_key":      c.apiKey,
		"sk":           sessionKey,
		"artist[0]":    t.Artist,
		"track[0]":     t.Name,
		"timestamp[0]": timestamp,
	}
	if t.Album != "" {
		params["album[0]"] = t.Album
	}
	return c.postSigned(params)
}

// UpdateNowPlaying sets the "currently listening" status on the account
// behind sessionKey. Same best-effort contract as Scrobble.
func (c *Client) UpdateNowPlaying(t Track, sessionKey string) (bool, error) {
	params := map[string]string{
		"method":  "track.updateNowPlaying",
		"api_key": c.apiKey,
		"sk":      sessionKey,
		"artist":  t.Artist,
		"track":   t.Name,
	}
	if t.Album != "" {
		params["album"] = t.Album
	}
	return c.postSigned(params)
}

func (c *Client) postSigned(params map[string]string) (bool, error) {
	sig := Sign(params, c.secret)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_sig", sig)
	form.Set("format", "json")

	req, _ := http.NewRequest("POST", c.BaseURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s: %w", params["method"], err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%s read: %w", params["method"], err)
	}

	var payload struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, fmt.Errorf("%s decode (status %d): %w", params["method"], resp.StatusCode, err)
	}
	if payload.Error != 0 {
		log.Printf("[Lastfm] %s rejected: %d %s", params["method"], payload.Error, payload.Message)
		return false, nil
	}
	return true, nil
}

func tokenPrefix(token string) string {
	if len(token) <= 6 {
		return token
	}
	return token[:6]
}
