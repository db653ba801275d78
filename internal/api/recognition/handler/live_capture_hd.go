package recognitionHandler

import (
	"AttendanceGolang/pkg/camera"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// HandleLiveCapture runs one capture attempt over frames the client pushes
// through the websocket, e.g. a teacher's browser webcam. The connection
// itself is the frame source, so no camera lease is involved.
func (h *RecognitionHandler) HandleLiveCapture(conn *websocket.Conn) {
	sessionID := conn.Params("sessionID")

	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	res, err := h.recognitionService.RunForStream(ctx, sessionID, &wsFrameStream{conn: conn})
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Live capture failed")

		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		_ = conn.Close()
		return
	}

	if err := conn.WriteJSON(res); err != nil {
		h.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to send live capture result")
	}
	_ = conn.Close()
}

// wsFrameStream adapts an upgraded websocket connection to the frame stream
// the capture loop consumes. Release does not close the connection; the
// handler still needs it to deliver the final result.
type wsFrameStream struct {
	conn     *websocket.Conn
	mu       sync.Mutex
	released bool
}

func (w *wsFrameStream) ReadFrame(ctx context.Context) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return nil, fmt.Errorf("%w: stream already released", camera.ErrDeviceUnavailable)
	}

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := w.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", camera.ErrDeviceUnavailable, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messageType, message, err := w.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", camera.ErrDeviceUnavailable, err)
		}

		if messageType == websocket.BinaryMessage {
			return message, nil
		}
	}
}

func (w *wsFrameStream) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.released = true
	return nil
}
