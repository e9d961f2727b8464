package lastfm

import (
	"encoding/json"
	"fmt"
)

// Track is one entry from a user's recent-plays feed.
// Timestamp is the upstream uts value; it is empty for "now playing"
// placeholders, which are transient and must not be treated as plays.
type Track struct {
	Artist     string
	Name       string
	Album      string
	Timestamp  string
	NowPlaying bool
}

// AuthError reports an error payload from the token-exchange endpoint.
type AuthError struct {
	Code    int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("lastfm auth error %d: %s", e.Code, e.Message)
}

// nameField decodes fields the upstream returns either as a bare string
// or as an object {"#text": "..."} depending on the endpoint.
type nameField string

func (n *nameField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = nameField(s)
		return nil
	}
	var obj struct {
		Text string `json:"#text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*n = nameField(obj.Text)
	return nil
}

// wireTrack mirrors the recenttracks JSON shape.
type wireTrack struct {
	Artist nameField `json:"artist"`
	Name   string    `json:"name"`
	Album  nameField `json:"album"`
	Date   struct {
		UTS string `json:"uts"`
	} `json:"date"`
	Attr struct {
		NowPlaying string `json:"nowplaying"`
	} `json:"@attr"`
}

func (w wireTrack) toTrack() Track {
	return Track{
		Artist:     string(w.Artist),
		Name:       w.Name,
		Album:      string(w.Album),
		Timestamp:  w.Date.UTS,
		NowPlaying: w.Attr.NowPlaying == "true",
	}
}

// decodeTrackList handles the upstream quirk where a single-entry feed is
// returned as a bare object instead of a one-element array.
func decodeTrackList(raw json.RawMessage) ([]Track, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var many []wireTrack
	if err := json.Unmarshal(raw, &many); err == nil {
		tracks := make([]Track, 0, len(many))
		for _, w := range many {
			tracks = append(tracks, w.toTrack())
		}
		return tracks, nil
	}

	var one wireTrack
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode track list: %w", err)
	}
	return []Track{one.toTrack()}, nil
}
