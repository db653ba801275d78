package recognitionService

import (
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/pkg/camera"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeStream struct {
	mu       sync.Mutex
	reads    int
	released bool
	read     func(n int) ([]byte, error)
}

func (s *fakeStream) ReadFrame(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.read(s.reads)
}

func (s *fakeStream) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	return nil
}

func (s *fakeStream) wasReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

type fakeEncoder struct {
	extract func(frame []byte) ([]float64, error)
}

func (e *fakeEncoder) Extract(_ context.Context, frame []byte) ([]float64, error) {
	return e.extract(frame)
}

func (e *fakeEncoder) IsConnected() bool { return true }
func (e *fakeEncoder) Close()            {}

func newTestLoop(enc *fakeEncoder, budget time.Duration, maxFrames int, clock *fakeClock) *captureLoop {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return &captureLoop{
		log:       log,
		encoder:   enc,
		budget:    budget,
		maxFrames: maxFrames,
		threshold: 0.55,
		now:       clock.now,
	}
}

func TestCaptureLoopMatchesAndStops(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(n int) ([]byte, error) {
		clock.advance(time.Second)
		return []byte(fmt.Sprintf("frame-%d", n)), nil
	}}

	// The first frame is ambiguous and must be skipped, the second matches.
	enc := &fakeEncoder{extract: func(frame []byte) ([]float64, error) {
		if string(frame) == "frame-1" {
			return nil, nil
		}
		return []float64{0.1, 0.2}, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)
	candidates := []entity.FaceRecord{record("S1", 0.1, 0.2)}

	result, err := loop.Run(context.Background(), stream, candidates)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureMatched, result.Outcome)
	require.NotNil(t, result.Match)
	assert.Equal(t, "S1", result.Match.StudentNumber)
	assert.InDelta(t, 1.0, result.Match.Similarity, 1e-9)
	assert.Equal(t, 2, result.FramesRead)
	assert.True(t, stream.wasReleased())
}

func TestCaptureLoopTimesOutAtBudget(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		clock.advance(10 * time.Second)
		return []byte("frame"), nil
	}}

	// Every frame encodes but nobody is close enough.
	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		return []float64{5, 5}, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)
	candidates := []entity.FaceRecord{record("S1", 0, 0)}

	result, err := loop.Run(context.Background(), stream, candidates)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureTimeout, result.Outcome)
	assert.Nil(t, result.Match)
	assert.Equal(t, 3, result.FramesRead)
	assert.Equal(t, 30*time.Second, result.Elapsed)
	assert.True(t, stream.wasReleased())
}

func TestCaptureLoopDeviceErrorIsNotATimeout(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		return nil, fmt.Errorf("%w: connection reset", camera.ErrDeviceUnavailable)
	}}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		t.Fatal("encoder must not be called when the device fails")
		return nil, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)
	candidates := []entity.FaceRecord{record("S1", 0, 0)}

	_, err := loop.Run(context.Background(), stream, candidates)
	assert.ErrorIs(t, err, recognition.ErrCaptureUnavailable)
	assert.True(t, stream.wasReleased())
}

func TestCaptureLoopCancellation(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	ctx, cancel := context.WithCancel(context.Background())

	stream := &fakeStream{read: func(n int) ([]byte, error) {
		if n == 2 {
			cancel()
			return nil, ctx.Err()
		}
		clock.advance(time.Second)
		return []byte("frame"), nil
	}}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		return []float64{5, 5}, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)
	candidates := []entity.FaceRecord{record("S1", 0, 0)}

	result, err := loop.Run(ctx, stream, candidates)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureCancelled, result.Outcome)
	assert.Nil(t, result.Match)
	assert.True(t, stream.wasReleased())
}

func TestCaptureLoopNoCandidates(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		t.Fatal("stream must not be read without candidates")
		return nil, nil
	}}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) { return nil, nil }}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)

	_, err := loop.Run(context.Background(), stream, nil)
	assert.ErrorIs(t, err, recognition.ErrNoCandidates)
	assert.True(t, stream.wasReleased(), "the stream is released even on the no-candidates path")
}

func TestCaptureLoopFrameCap(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		clock.advance(time.Millisecond)
		return []byte("frame"), nil
	}}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		return []float64{5, 5}, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 5, clock)
	candidates := []entity.FaceRecord{record("S1", 0, 0)}

	result, err := loop.Run(context.Background(), stream, candidates)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureTimeout, result.Outcome)
	assert.Equal(t, 5, result.FramesRead)
}

func TestCaptureLoopSkipsTransientExtractorFailures(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	stream := &fakeStream{read: func(n int) ([]byte, error) {
		clock.advance(time.Second)
		return []byte(fmt.Sprintf("frame-%d", n)), nil
	}}

	enc := &fakeEncoder{extract: func(frame []byte) ([]float64, error) {
		if string(frame) == "frame-1" {
			return nil, fmt.Errorf("extractor hiccup")
		}
		return []float64{0.1, 0.2}, nil
	}}

	loop := newTestLoop(enc, 30*time.Second, 0, clock)
	candidates := []entity.FaceRecord{record("S1", 0.1, 0.2)}

	result, err := loop.Run(context.Background(), stream, candidates)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureMatched, result.Outcome)
	assert.Equal(t, 2, result.FramesRead)
}
