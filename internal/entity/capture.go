package entity

import "time"

// MatchResult identifies the enrolled student whose encoding sat closest to
// an observed encoding, with similarity = 1 - euclidean distance. It is
// transient and never persisted.
type MatchResult struct {
	StudentNumber string  `json:"student_number"`
	Name          string  `json:"name"`
	Similarity    float64 `json:"similarity"`
}

type CaptureOutcome string

const (
	// CaptureMatched means a frame produced an encoding whose best match
	// cleared the similarity threshold.
	CaptureMatched CaptureOutcome = "matched"
	// CaptureTimeout means the time budget elapsed with nobody recognized.
	// This is an expected outcome, not a device fault.
	CaptureTimeout CaptureOutcome = "timeout"
	// CaptureCancelled means the caller cancelled the loop before a match
	// or timeout, e.g. because the session was closed mid-capture.
	CaptureCancelled CaptureOutcome = "cancelled"
)

type CaptureResult struct {
	Outcome    CaptureOutcome `json:"outcome"`
	Match      *MatchResult   `json:"match,omitempty"`
	FramesRead int            `json:"frames_read"`
	Elapsed    time.Duration  `json:"elapsed"`
}

type FaceCacheStatus struct {
	CachedCount     int       `json:"cached_count"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	TTLSeconds      int       `json:"ttl_seconds"`
}
