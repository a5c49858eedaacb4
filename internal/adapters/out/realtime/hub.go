// Package realtime fans order changes out to connected staff sessions over
// WebSocket.
//
// The Hub owns the set of sessions. A session only receives order events after
// it sent join-staff; joining is acknowledged with a joined frame and does not
// replay earlier events, so clients load a snapshot over HTTP first.
//
// Publish never blocks the caller: each session has a bounded outbox and an
// event that does not fit is dropped for that session and counted.
//
// A session must show signs of life (any frame or a pong) within the pong wait.
// Heartbeat pings every session and closes the silent ones; the read deadline
// closes them as well when no Heartbeat runs.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
)

const (
	defaultOutboxSize   = 64
	defaultWriteTimeout = 10 * time.Second
	defaultReadLimit    = 4096
	defaultPongWait     = 60 * time.Second
)

// ErrHubClosed is returned by Publish and Serve after Close.
var ErrHubClosed = errors.New("realtime hub is closed")

// Recorder receives delivery statistics. Implementations must be safe for concurrent use.
type Recorder interface {
	EventDelivered(event string)
	EventDropped(event string)
	SessionsChanged(connected, joined int)
}

type noopRecorder struct{}

func (noopRecorder) EventDelivered(string)    {}
func (noopRecorder) EventDropped(string)      {}
func (noopRecorder) SessionsChanged(int, int) {}

// Option configures a Hub.
type Option func(*Hub)

// WithOutboxSize sets how many frames may be queued per session.
func WithOutboxSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.outboxSize = n
		}
	}
}

// WithWriteTimeout bounds every frame write and ping.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithPongWait sets how long a session may stay silent before it is closed.
// Heartbeat must run more often than this.
func WithPongWait(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pongWait = d
		}
	}
}

// WithRecorder installs a statistics recorder.
func WithRecorder(r Recorder) Option {
	return func(h *Hub) {
		if r != nil {
			h.recorder = r
		}
	}
}

// Hub implements ports.OrderEventPublisher.
type Hub struct {
	mu       sync.RWMutex
	sessions map[kernel.UUID]*session
	closed   bool

	outboxSize   int
	writeTimeout time.Duration
	pongWait     time.Duration
	recorder     Recorder
	logger       *slog.Logger
	now          func() time.Time
}

var _ ports.OrderEventPublisher = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger, opts ...Option) *Hub {
	h := &Hub{
		sessions:     make(map[kernel.UUID]*session),
		outboxSize:   defaultOutboxSize,
		writeTimeout: defaultWriteTimeout,
		pongWait:     defaultPongWait,
		recorder:     noopRecorder{},
		logger:       logger.With("component", "realtime_hub"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve runs a connected client until it disconnects, ctx is done or the hub
// closes. The connection is closed when Serve returns.
func (h *Hub) Serve(ctx context.Context, conn Conn) error {
	conn.SetReadLimit(defaultReadLimit)
	s := newSession(conn, h.outboxSize, h.now())
	h.alive(s)
	conn.SetPongHandler(func(string) error {
		h.alive(s)
		return nil
	})

	if err := h.register(s); err != nil {
		_ = conn.Close()
		return err
	}
	defer h.unregister(s)

	go s.writeLoop(h.writeTimeout)

	stop := context.AfterFunc(ctx, s.close)
	defer stop()

	h.logger.DebugContext(ctx, "session connected", "session_id", s.id.String())
	h.readLoop(ctx, s)
	return nil
}

// readLoop dispatches client frames until the connection fails.
func (h *Hub) readLoop(ctx context.Context, s *session) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		h.alive(s)

		var env Envelope
		if err = json.Unmarshal(data, &env); err != nil {
			h.reply(s, EventError, ErrorData{Message: "malformed frame"})
			continue
		}

		switch env.Event {
		case EventJoinStaff:
			h.join(ctx, s)
		case EventLeaveStaff:
			h.leave(ctx, s)
		default:
			h.reply(s, EventError, ErrorData{Message: "unsupported event: " + string(env.Event)})
		}
	}
}

// alive records a sign of life and pushes the read deadline forward.
func (h *Hub) alive(s *session) {
	now := h.now()
	s.touch(now)
	_ = s.conn.SetReadDeadline(now.Add(h.pongWait))
}

func (h *Hub) reply(s *session, event Event, data any) {
	frame, err := encode(event, data)
	if err != nil {
		h.logger.Error("failed to encode frame", "event", string(event), "error", err)
		return
	}
	if !s.enqueue(frame) {
		h.recorder.EventDropped(string(event))
	}
}

func (h *Hub) register(s *session) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	h.sessions[s.id] = s
	h.recordSessionsLocked()
	return nil
}

func (h *Hub) unregister(s *session) {
	s.close()

	h.mu.Lock()
	delete(h.sessions, s.id)
	h.recordSessionsLocked()
	h.mu.Unlock()

	h.logger.Debug("session disconnected", "session_id", s.id.String())
}

// join queues the joined ack and marks the session joined under the write
// lock, so no Publish can queue an order event ahead of the ack.
func (h *Hub) join(ctx context.Context, s *session) {
	ack := JoinedData{SessionID: s.id.String(), Room: StaffRoom}

	h.mu.Lock()
	h.reply(s, EventJoined, ack)
	changed := !s.joined.Swap(true)
	if changed {
		h.recordSessionsLocked()
	}
	h.mu.Unlock()

	if changed {
		h.logger.InfoContext(ctx, "staff session joined", "session_id", s.id.String())
	}
}

// leave stops delivery before the left ack is queued, so left is the last
// frame of the room.
func (h *Hub) leave(ctx context.Context, s *session) {
	ack := JoinedData{SessionID: s.id.String(), Room: StaffRoom}

	h.mu.Lock()
	changed := s.joined.Swap(false)
	if changed {
		h.recordSessionsLocked()
	}
	h.reply(s, EventLeft, ack)
	h.mu.Unlock()

	if changed {
		h.logger.InfoContext(ctx, "staff session left", "session_id", s.id.String())
	}
}

func (h *Hub) recordSessionsLocked() {
	joined := 0
	for _, s := range h.sessions {
		if s.joined.Load() {
			joined++
		}
	}
	h.recorder.SessionsChanged(len(h.sessions), joined)
}

// Publish sends the order to every joined session without waiting for delivery.
func (h *Hub) Publish(ctx context.Context, kind ports.OrderEventKind, aggregate *order.Order) error {
	frame, err := encode(Event(kind), readmodel.FromOrder(aggregate))
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	for _, s := range h.sessions {
		if !s.joined.Load() {
			continue
		}
		if s.enqueue(frame) {
			h.recorder.EventDelivered(string(kind))
			continue
		}
		h.recorder.EventDropped(string(kind))
		h.logger.WarnContext(ctx, "dropped event for slow session",
			"session_id", s.id.String(),
			"event", string(kind),
			"order_id", aggregate.Number().String(),
		)
	}
	return nil
}

// Heartbeat closes sessions that stayed silent longer than the pong wait and
// pings the rest; a failed ping closes the session too.
// It returns the number of sessions closed.
func (h *Hub) Heartbeat(ctx context.Context) int {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	pruned := 0
	for _, s := range sessions {
		if ctx.Err() != nil {
			break
		}
		if silent := s.silentFor(h.now()); silent > h.pongWait {
			h.logger.InfoContext(ctx, "closing silent session", "session_id", s.id.String(), "silent_for", silent)
			s.close()
			pruned++
			continue
		}
		if err := s.ping(h.writeTimeout); err != nil {
			h.logger.InfoContext(ctx, "closing unresponsive session", "session_id", s.id.String(), "error", err)
			s.close()
			pruned++
		}
	}
	return pruned
}

// Stats returns the number of connected and joined sessions.
func (h *Hub) Stats() (connected, joined int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sessions {
		if s.joined.Load() {
			joined++
		}
	}
	return len(h.sessions), joined
}

// Close disconnects every session and rejects further use.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
