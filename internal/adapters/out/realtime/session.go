package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"qrcafe/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

// Conn is the subset of *websocket.Conn the hub relies on.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// session is one connected client. Frames are queued on outbox and written by
// a single writer goroutine, which is the only goroutine calling WriteMessage.
type session struct {
	id     kernel.UUID
	conn   Conn
	outbox chan []byte
	joined atomic.Bool

	// lastSeen is the unix nano time of the last frame or pong from the peer.
	lastSeen atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn Conn, outboxSize int, now time.Time) *session {
	s := &session{
		id:     kernel.NewUUID(),
		conn:   conn,
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) silentFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// enqueue never blocks; it reports false when the outbox is full or the session is closed.
func (s *session) enqueue(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.outbox <- frame:
		return true
	default:
		return false
	}
}

func (s *session) writeLoop(writeTimeout time.Duration) {
	for {
		select {
		case <-s.done:
			return
		case frame := <-s.outbox:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *session) ping(timeout time.Duration) error {
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeout))
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}
