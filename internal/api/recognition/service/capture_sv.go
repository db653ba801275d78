package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/pkg/camera"
	"AttendanceGolang/pkg/encoder"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// captureLoop reads frames from a stream until a candidate matches, the
// time budget runs out, or the caller cancels. One loop serves one capture
// attempt; it never outlives its call.
type captureLoop struct {
	log       *logrus.Logger
	encoder   encoder.IEncoder
	budget    time.Duration
	maxFrames int
	threshold float64
	now       func() time.Time
}

// Run drains the stream frame by frame. Frames with zero or multiple faces
// are skipped, as are frames the extractor transiently fails on; both still
// burn budget. The stream is released on every exit path.
func (l *captureLoop) Run(ctx context.Context, stream camera.IFrameStream, candidates []entity.FaceRecord) (entity.CaptureResult, error) {
	defer func() {
		if err := stream.Release(); err != nil {
			l.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to release frame stream")
		}
	}()

	if len(candidates) == 0 {
		return entity.CaptureResult{}, recognition.ErrNoCandidates
	}

	start := l.now()
	deadline := start.Add(l.budget)

	frameCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	framesRead := 0
	for {
		if err := ctx.Err(); err != nil {
			return entity.CaptureResult{
				Outcome:    entity.CaptureCancelled,
				FramesRead: framesRead,
				Elapsed:    l.now().Sub(start),
			}, nil
		}

		if !l.now().Before(deadline) {
			return entity.CaptureResult{
				Outcome:    entity.CaptureTimeout,
				FramesRead: framesRead,
				Elapsed:    l.now().Sub(start),
			}, nil
		}

		frame, err := stream.ReadFrame(frameCtx)
		if err != nil {
			if ctx.Err() != nil {
				return entity.CaptureResult{
					Outcome:    entity.CaptureCancelled,
					FramesRead: framesRead,
					Elapsed:    l.now().Sub(start),
				}, nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return entity.CaptureResult{
					Outcome:    entity.CaptureTimeout,
					FramesRead: framesRead,
					Elapsed:    l.now().Sub(start),
				}, nil
			}
			return entity.CaptureResult{}, fmt.Errorf("%w: %v", recognition.ErrCaptureUnavailable, err)
		}
		framesRead++

		probe, err := l.encoder.Extract(frameCtx, frame)
		if err != nil {
			// The extractor may come back; keep burning frames until the
			// budget says otherwise.
			l.log.WithFields(logrus.Fields{
				"error":       err.Error(),
				"frames_read": framesRead,
			}).Warn("Encoding extraction failed, skipping frame")
			continue
		}
		if probe == nil {
			continue
		}

		match, err := bestMatch(candidates, probe, l.threshold)
		if err != nil {
			return entity.CaptureResult{}, err
		}
		if match != nil {
			return entity.CaptureResult{
				Outcome:    entity.CaptureMatched,
				Match:      match,
				FramesRead: framesRead,
				Elapsed:    l.now().Sub(start),
			}, nil
		}

		if l.maxFrames > 0 && framesRead >= l.maxFrames {
			return entity.CaptureResult{
				Outcome:    entity.CaptureTimeout,
				FramesRead: framesRead,
				Elapsed:    l.now().Sub(start),
			}, nil
		}
	}
}
