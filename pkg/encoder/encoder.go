package encoder

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

// ErrExtractorUnavailable signals that the encoding service itself failed,
// as opposed to a frame that simply contained no usable face.
var ErrExtractorUnavailable = errors.New("encoding extractor unavailable")

// IEncoder extracts a face-encoding vector from one frame. A frame with zero
// detected faces or more than one detected face yields (nil, nil): ambiguous
// frames are neither matches nor confident misses and must be skipped.
type IEncoder interface {
	Extract(ctx context.Context, frame []byte) ([]float64, error)
	IsConnected() bool
	Close()
}

type extractResponse struct {
	Encodings [][]float64 `json:"encodings"`
}

type encoderClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	serviceURL   string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func New() IEncoder {
	client := &encoderClient{
		serviceURL:   os.Getenv("ENCODER_SERVICE_URL"),
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.reconnect(); err != nil {
			log.Printf("Initial connection to encoding service failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Successfully connected to encoding service")
		}
	}()

	return client
}

func (c *encoderClient) reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectLocked()
}

func (c *encoderClient) reconnectLocked() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	if c.serviceURL == "" {
		return fmt.Errorf("ENCODER_SERVICE_URL not configured")
	}

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(c.serviceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.serviceURL, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong to encoding service: %v", err)
		}
		return nil
	})

	c.conn = conn
	return nil
}

func (c *encoderClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *encoderClient) Extract(ctx context.Context, frame []byte) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.reconnectLocked(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
		}
	}
	conn := c.conn

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.conn = nil
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}

	var resp extractResponse
	if err := conn.ReadJSON(&resp); err != nil {
		c.conn = nil
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}

	// Zero faces or more than one face: skip the frame.
	if len(resp.Encodings) != 1 {
		return nil, nil
	}

	return resp.Encodings[0], nil
}

func (c *encoderClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
