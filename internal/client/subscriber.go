package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"qrcafe/internal/adapters/out/realtime"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"github.com/gorilla/websocket"
)

const (
	defaultReconnectDelay = 2 * time.Second
	handshakeTimeout      = 10 * time.Second

	// defaultReadTimeout must exceed the server's ping interval.
	defaultReadTimeout = 75 * time.Second
	pongWriteTimeout   = 5 * time.Second
)

// ErrJoinRejected is returned when the server answers join-staff with anything but joined.
var ErrJoinRejected = errors.New("realtime join rejected")

// OrderHandler receives one order event.
type OrderHandler func(kind ports.OrderEventKind, view readmodel.OrderView)

// SnapshotFunc reloads the full view. It runs after every successful join.
type SnapshotFunc func(ctx context.Context) error

// LoginFunc obtains a fresh staff token, usually by logging in again.
type LoginFunc func(ctx context.Context) error

// TokenSource returns the current staff token. *APIClient is a TokenSource.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a token that never changes.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

var _ TokenSource = (*APIClient)(nil)

// RetryUnauthorized runs call and, when it fails with invalid credentials,
// logs in once and runs it again.
func RetryUnauthorized(ctx context.Context, login LoginFunc, call func(ctx context.Context) error) error {
	err := call(ctx)
	if err == nil || login == nil || !errors.Is(err, errs.ErrCredentialsAreInvalid) {
		return err
	}
	if loginErr := login(ctx); loginErr != nil {
		return fmt.Errorf("login again: %w", loginErr)
	}
	return call(ctx)
}

// Subscriber keeps a staff session open and dispatches order events from a
// single goroutine, so handlers and the snapshot hook never run concurrently.
type Subscriber struct {
	url            string
	tokens         TokenSource
	dialer         websocket.Dialer
	reconnectDelay time.Duration
	readTimeout    time.Duration
	handlers       map[ports.OrderEventKind]OrderHandler
	snapshot       SnapshotFunc
	login          LoginFunc
	logger         *slog.Logger
}

// NewSubscriber builds a subscriber for the API at baseURL (http or https).
// The token is read from tokens on every connection attempt.
func NewSubscriber(baseURL string, tokens TokenSource, logger *slog.Logger) (*Subscriber, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/ws")
	if err != nil {
		return nil, fmt.Errorf("parse realtime url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	return &Subscriber{
		url:            u.String(),
		tokens:         tokens,
		dialer:         websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		reconnectDelay: defaultReconnectDelay,
		readTimeout:    defaultReadTimeout,
		handlers:       make(map[ports.OrderEventKind]OrderHandler),
		logger:         logger.With("component", "realtime_subscriber"),
	}, nil
}

// On registers the handler for one event kind. Register before Run.
func (s *Subscriber) On(kind ports.OrderEventKind, handler OrderHandler) {
	s.handlers[kind] = handler
}

// OnSnapshot registers the resync hook. Register before Run.
func (s *Subscriber) OnSnapshot(fn SnapshotFunc) {
	s.snapshot = fn
}

// OnUnauthorized registers the hook run when the server rejects the token.
// Register before Run.
func (s *Subscriber) OnUnauthorized(fn LoginFunc) {
	s.login = fn
}

// SetReadTimeout changes how long the connection may stay silent, pings
// included, before it is considered dead and replaced.
func (s *Subscriber) SetReadTimeout(d time.Duration) {
	if d > 0 {
		s.readTimeout = d
	}
}

// SetReconnectDelay changes the pause between connection attempts.
func (s *Subscriber) SetReconnectDelay(d time.Duration) {
	if d > 0 {
		s.reconnectDelay = d
	}
}

// Run connects, joins the staff room and dispatches events until ctx is done,
// reconnecting after failures. It returns ctx.Err().
func (s *Subscriber) Run(ctx context.Context) error {
	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.WarnContext(ctx, "realtime session ended, reconnecting", "error", err, "delay", s.reconnectDelay)

		if errors.Is(err, errs.ErrCredentialsAreInvalid) && s.login != nil {
			if loginErr := s.login(ctx); loginErr != nil {
				s.logger.WarnContext(ctx, "failed to log in again", "error", loginErr)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.reconnectDelay):
		}
	}
}

// session runs one connection. Events received while the snapshot loads stay
// buffered in the socket and are applied afterwards, so nothing between join
// and snapshot is lost.
func (s *Subscriber) session(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.tokens.Token())

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	status := 0
	if resp != nil {
		status = resp.StatusCode
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}
	if err != nil {
		if status >= http.StatusBadRequest {
			err = &APIError{StatusCode: status, Message: err.Error()}
		}
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	extend := func() { _ = conn.SetReadDeadline(time.Now().Add(s.readTimeout)) }
	conn.SetPingHandler(func(data string) error {
		extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(pongWriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})
	extend()

	if err = conn.WriteJSON(realtime.Envelope{Event: realtime.EventJoinStaff}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	var ack realtime.Envelope
	if err = conn.ReadJSON(&ack); err != nil {
		return fmt.Errorf("read join ack: %w", err)
	}
	if ack.Event != realtime.EventJoined {
		return fmt.Errorf("%w: %s", ErrJoinRejected, ack.Event)
	}
	s.logger.InfoContext(ctx, "joined staff room")

	if s.snapshot != nil {
		if err = s.snapshot(ctx); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}
	extend()

	for {
		var env realtime.Envelope
		if err = conn.ReadJSON(&env); err != nil {
			return err
		}
		extend()
		s.dispatch(ctx, env)
	}
}

func (s *Subscriber) dispatch(ctx context.Context, env realtime.Envelope) {
	switch env.Event {
	case realtime.EventOrderCreated, realtime.EventOrderUpdated:
	case realtime.EventError:
		s.logger.WarnContext(ctx, "server reported an error", "data", string(env.Data))
		return
	default:
		return
	}

	kind := ports.OrderEventKind(env.Event)
	handler, ok := s.handlers[kind]
	if !ok {
		return
	}

	var view readmodel.OrderView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		s.logger.WarnContext(ctx, "dropping malformed order event", "event", string(env.Event), "error", err)
		return
	}
	handler(kind, view)
}
