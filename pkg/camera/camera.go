package camera

import (
	"errors"
	"fmt"
	"github.com/gorilla/websocket"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/net/context"
)

// ErrDeviceUnavailable wraps every failure to reach or read from a camera
// device so callers can distinguish a broken camera from an empty classroom.
var ErrDeviceUnavailable = errors.New("camera device unavailable")

// IFrameSource opens a frame stream for one classroom camera. The returned
// stream is a scoped resource: the caller must Release it on every exit path.
type IFrameSource interface {
	Acquire(deviceID string) (IFrameStream, error)
}

// IFrameStream yields raw JPEG frames from an acquired camera.
type IFrameStream interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	Release() error
}

type frameSource struct {
	gatewayURL   string
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New() IFrameSource {
	return &frameSource{
		gatewayURL:   os.Getenv("CAMERA_GATEWAY_URL"),
		dialTimeout:  10 * time.Second,
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}
}

func (s *frameSource) Acquire(deviceID string) (IFrameStream, error) {
	if s.gatewayURL == "" {
		return nil, fmt.Errorf("%w: CAMERA_GATEWAY_URL not configured", ErrDeviceUnavailable)
	}

	url := fmt.Sprintf("%s/devices/%s/stream", s.gatewayURL, deviceID)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = s.dialTimeout

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrDeviceUnavailable, url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(s.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong to camera gateway: %v", err)
		}
		return nil
	})

	return &frameStream{conn: conn, readTimeout: s.readTimeout}, nil
}

type frameStream struct {
	conn        *websocket.Conn
	mu          sync.Mutex
	readTimeout time.Duration
	released    bool
}

func (f *frameStream) ReadFrame(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return nil, fmt.Errorf("%w: stream already released", ErrDeviceUnavailable)
	}

	deadline := time.Now().Add(f.readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := f.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messageType, message, err := f.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}

		if messageType == websocket.BinaryMessage {
			return message, nil
		}
	}
}

func (f *frameStream) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return nil
	}
	f.released = true

	return f.conn.Close()
}
