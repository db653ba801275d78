package recognitionService

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/pkg/camera"
	contextPkg "AttendanceGolang/pkg/context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *recognitionService) RunForSession(ctx context.Context, sessionID, deviceID string) (recognition.CaptureResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	// The lease outlives the budget slightly so a slow release never lets a
	// second loop grab the same physical camera mid-capture.
	leaseTTL := s.budget + 15*time.Second
	acquired, err := s.redis.AcquireCameraLease(ctx, deviceID, leaseTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"device_id":  deviceID,
			"error":      err.Error(),
		}).Error("Failed to acquire camera lease")
		return recognition.CaptureResponse{}, err
	}
	if !acquired {
		return recognition.CaptureResponse{}, recognition.ErrCaptureBusy
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redis.ReleaseCameraLease(releaseCtx, deviceID); err != nil {
			s.log.WithFields(logrus.Fields{
				"device_id": deviceID,
				"error":     err.Error(),
			}).Warn("Failed to release camera lease")
		}
	}()

	stream, err := s.frames.Acquire(deviceID)
	if err != nil {
		return recognition.CaptureResponse{}, fmt.Errorf("%w: %v", recognition.ErrCaptureUnavailable, err)
	}

	return s.runCapture(ctx, sessionID, stream)
}

func (s *recognitionService) RunForStream(ctx context.Context, sessionID string, stream camera.IFrameStream) (recognition.CaptureResponse, error) {
	return s.runCapture(ctx, sessionID, stream)
}

// runCapture owns the stream from here on: the capture loop releases it on
// every exit path.
func (s *recognitionService) runCapture(ctx context.Context, sessionID string, stream camera.IFrameStream) (recognition.CaptureResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.attendanceService.Snapshot(ctx, sessionID)
	if err != nil {
		stream.Release()
		return recognition.CaptureResponse{}, err
	}
	if session.Status == entity.SessionCompleted {
		stream.Release()
		return recognition.CaptureResponse{}, attendance.ErrSessionClosed
	}

	records, err := s.cache.Records(ctx)
	if err != nil {
		stream.Release()
		return recognition.CaptureResponse{}, err
	}

	// Only faces on this session's roster are candidates. The filter keeps
	// the cache's student-number ordering, which the matcher relies on for
	// deterministic tie-breaks.
	roster := make(map[string]struct{}, len(session.Roster))
	for _, sn := range session.Roster {
		roster[sn] = struct{}{}
	}
	candidates := make([]entity.FaceRecord, 0, len(roster))
	for _, record := range records {
		if _, ok := roster[record.StudentNumber]; ok {
			candidates = append(candidates, record)
		}
	}
	if len(candidates) == 0 {
		stream.Release()
		return recognition.CaptureResponse{}, recognition.ErrNoCandidates
	}

	loop := &captureLoop{
		log:       s.log,
		encoder:   s.encoder,
		budget:    s.budget,
		maxFrames: s.maxFrames,
		threshold: s.threshold,
		now:       time.Now,
	}

	result, err := loop.Run(ctx, stream, candidates)
	if err != nil {
		return recognition.CaptureResponse{}, err
	}

	res := recognition.CaptureResponse{
		SessionID:  sessionID,
		Outcome:    string(result.Outcome),
		Match:      result.Match,
		FramesRead: result.FramesRead,
		ElapsedMs:  result.Elapsed.Milliseconds(),
	}

	if result.Outcome == entity.CaptureMatched {
		record, err := s.attendanceService.RecordParticipation(ctx, sessionID, result.Match.StudentNumber)
		if err != nil {
			// The session can complete while a capture is in flight; the
			// match is then reported as the error, not silently dropped.
			return recognition.CaptureResponse{}, err
		}
		res.AlreadyMarked = record.AlreadyMarked

		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"session_id":     sessionID,
			"student_number": result.Match.StudentNumber,
			"similarity":     result.Match.Similarity,
			"frames_read":    result.FramesRead,
		}).Info("Face recognized and attendance recorded")
	} else {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"session_id":  sessionID,
			"outcome":     string(result.Outcome),
			"frames_read": result.FramesRead,
		}).Info("Capture finished without a match")
	}

	return res, nil
}

func (s *recognitionService) RefreshCache(ctx context.Context) (recognition.CacheStatusResponse, error) {
	// An explicit refresh always hits the store, fresh or not.
	s.cache.Invalidate()
	if err := s.cache.Refresh(ctx); err != nil {
		return recognition.CacheStatusResponse{}, recognition.ErrStoreUnavailable
	}
	return recognition.NewCacheStatusResponse(s.cache.Status()), nil
}

func (s *recognitionService) CacheStatus() recognition.CacheStatusResponse {
	return recognition.NewCacheStatusResponse(s.cache.Status())
}

func (s *recognitionService) SystemStatus(ctx context.Context) (recognition.SystemStatusResponse, error) {
	status := s.cache.Status()

	repo, err := s.recognitionRepository.NewClient(false)
	if err != nil {
		return recognition.SystemStatusResponse{}, err
	}

	enrolled, err := repo.Faces.CountEnrolled(ctx)
	if err != nil {
		return recognition.SystemStatusResponse{}, err
	}

	return recognition.SystemStatusResponse{
		EncoderConnected:     s.encoder.IsConnected(),
		CachedFaces:          status.CachedCount,
		EnrolledInStore:      enrolled,
		CacheLastRefreshedAt: status.LastRefreshedAt,
		CacheTTLSeconds:      status.TTLSeconds,
		MatchThreshold:       s.threshold,
		CaptureBudgetSeconds: int(s.budget / time.Second),
	}, nil
}
