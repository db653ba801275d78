package recognition

import (
	"AttendanceGolang/internal/entity"
	"time"
)

type CaptureRequest struct {
	DeviceID string `json:"device_id" validate:"required,min=1,max=64"`
}

type CaptureResponse struct {
	SessionID     string              `json:"session_id"`
	Outcome       string              `json:"outcome"`
	Match         *entity.MatchResult `json:"match,omitempty"`
	AlreadyMarked bool                `json:"already_marked"`
	FramesRead    int                 `json:"frames_read"`
	ElapsedMs     int64               `json:"elapsed_ms"`
}

type CacheStatusResponse struct {
	CachedCount     int       `json:"cached_count"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
	TTLSeconds      int       `json:"ttl_seconds"`
}

type SystemStatusResponse struct {
	EncoderConnected     bool      `json:"encoder_connected"`
	CachedFaces          int       `json:"cached_faces"`
	EnrolledInStore      int       `json:"enrolled_in_store"`
	CacheLastRefreshedAt time.Time `json:"cache_last_refreshed_at"`
	CacheTTLSeconds      int       `json:"cache_ttl_seconds"`
	MatchThreshold       float64   `json:"match_threshold"`
	CaptureBudgetSeconds int       `json:"capture_budget_seconds"`
}

type EnrollResponse struct {
	StudentNumber string `json:"student_number"`
	PhotoURL      string `json:"photo_url,omitempty"`
	ImagesUsed    int    `json:"images_used"`
	EncodingSize  int    `json:"encoding_size"`
}

func NewCacheStatusResponse(status entity.FaceCacheStatus) CacheStatusResponse {
	return CacheStatusResponse{
		CachedCount:     status.CachedCount,
		LastRefreshedAt: status.LastRefreshedAt,
		TTLSeconds:      status.TTLSeconds,
	}
}
