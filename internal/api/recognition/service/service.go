package recognitionService

import (
	attendanceService "AttendanceGolang/internal/api/attendance/service"
	"AttendanceGolang/internal/api/recognition"
	recognitionRepository "AttendanceGolang/internal/api/recognition/repository"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/pkg/camera"
	"AttendanceGolang/pkg/encoder"
	"AttendanceGolang/pkg/redis"
	"AttendanceGolang/pkg/s3"
	"context"
	"mime/multipart"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultMatchThreshold = 0.55
	defaultCacheTTL       = 3600 * time.Second
	defaultCaptureBudget  = 30 * time.Second
)

type RecognitionService interface {
	// RunForSession acquires the camera lease for the device, then runs one
	// capture attempt against the session's roster.
	RunForSession(c context.Context, sessionID, deviceID string) (recognition.CaptureResponse, error)

	// RunForStream runs one capture attempt over a caller-supplied frame
	// stream, e.g. a browser webcam pushed over a websocket. No lease is
	// taken because the stream is not a shared device.
	RunForStream(c context.Context, sessionID string, stream camera.IFrameStream) (recognition.CaptureResponse, error)

	RefreshCache(c context.Context) (recognition.CacheStatusResponse, error)
	CacheStatus() recognition.CacheStatusResponse
	SystemStatus(c context.Context) (recognition.SystemStatusResponse, error)

	EnrollFace(c context.Context, studentNumber string, files []*multipart.FileHeader) (recognition.EnrollResponse, error)
	DeleteFace(c context.Context, studentNumber string) error
	FacePhotoURL(c context.Context, studentNumber string) (string, error)
}

type recognitionService struct {
	log                   *logrus.Logger
	recognitionRepository recognitionRepository.Repository
	attendanceService     attendanceService.AttendanceService
	frames                camera.IFrameSource
	encoder               encoder.IEncoder
	redis                 redis.IRedis
	s3                    s3.ItfS3

	cache     *FaceCache
	threshold float64
	budget    time.Duration
	maxFrames int
}

func New(
	log *logrus.Logger,
	repo recognitionRepository.Repository,
	as attendanceService.AttendanceService,
	frames camera.IFrameSource,
	enc encoder.IEncoder,
	redisClient redis.IRedis,
	s3Client s3.ItfS3,
) RecognitionService {
	s := &recognitionService{
		log:                   log,
		recognitionRepository: repo,
		attendanceService:     as,
		frames:                frames,
		encoder:               enc,
		redis:                 redisClient,
		s3:                    s3Client,
		threshold:             envFloat("FACE_MATCH_THRESHOLD", defaultMatchThreshold),
		budget:                envSeconds("CAPTURE_TIME_BUDGET_SECONDS", defaultCaptureBudget),
		maxFrames:             envInt("CAPTURE_MAX_FRAMES", 0),
	}
	s.cache = NewFaceCache(log, s, envSeconds("FACE_CACHE_TTL_SECONDS", defaultCacheTTL))

	return s
}

// ListEnrolledFaces backs the face cache with the encoding store.
func (s *recognitionService) ListEnrolledFaces(ctx context.Context) ([]entity.FaceRecord, error) {
	repo, err := s.recognitionRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	students, err := repo.Faces.ListEnrolled(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]entity.FaceRecord, 0, len(students))
	for _, student := range students {
		records = append(records, entity.FaceRecord{
			StudentNumber: student.StudentNumber,
			Name:          student.DisplayName(),
			Encoding:      []float64(student.Encoding),
		})
	}

	return records, nil
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return fallback
}
