package models

// MirrorConfig holds one destination user's mirroring setup.
// SourceAccount is the account whose plays get copied onto the owner.
type MirrorConfig struct {
	SourceAccount string `json:"source_account"`
	Enabled       bool   `json:"enabled"`
}

// ScrobbledTrack is one entry in a user's mirror history.
// Timestamp is the upstream-assigned play time (uts) and is the sole
// dedup key: no two entries for the same user may share it.
type ScrobbledTrack struct {
	Artist     string `json:"artist"`
	Track      string `json:"track"`
	Album      string `json:"album,omitempty"`
	Timestamp  string `json:"timestamp"`
	MirroredAt string `json:"mirroredAt"`
}
