package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"qrcafe/internal/adapters/out/realtime"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("Ann", "+1 555 0100")
	require.NoError(t, err)
	table, err := order.NewTable("T4")
	require.NoError(t, err)
	item, err := order.NewLineItem(kernel.NewUUID(), "Latte", kernel.MustMoney("3.50"), 1, "")
	require.NoError(t, err)
	number, err := kernel.OrderNumberFromString("ORD-250101-0000000000AB")
	require.NoError(t, err)
	o, err := order.NewOrder(number, customer, table, []order.LineItem{item}, "", time.Now().UTC())
	require.NoError(t, err)
	return o
}

func realtimeServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer staff" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = hub.Serve(r.Context(), conn)
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(hub.Close)
	return ts
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(s string) {
	l.mu.Lock()
	l.events = append(l.events, s)
	l.mu.Unlock()
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func TestSubscriber_Run_ShouldSnapshotThenDispatch(t *testing.T) {
	hub := realtime.NewHub(discardLogger())
	ts := realtimeServer(t, hub)

	sub, err := NewSubscriber(ts.URL, StaticToken("staff"), discardLogger())
	require.NoError(t, err)

	events := &eventLog{}
	sub.OnSnapshot(func(context.Context) error {
		events.add("snapshot")
		return nil
	})
	sub.On(ports.OrderCreated, func(kind ports.OrderEventKind, view readmodel.OrderView) {
		events.add(string(kind) + " " + view.OrderID)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, joined := hub.Stats()
		return joined == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), ports.OrderCreated, newOrder(t)))
	require.NoError(t, hub.Publish(context.Background(), ports.OrderUpdated, newOrder(t)))

	require.Eventually(t, func() bool { return len(events.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"snapshot", "order-created ORD-250101-0000000000AB"}, events.snapshot())

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestSubscriber_Run_WhenConnectionDrops_ShouldReconnectAndSnapshotAgain(t *testing.T) {
	var mu sync.Mutex
	connections := 0
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var join realtime.Envelope
		if conn.ReadJSON(&join) != nil || join.Event != realtime.EventJoinStaff {
			return
		}
		if conn.WriteJSON(realtime.Envelope{Event: realtime.EventJoined}) != nil {
			return
		}

		mu.Lock()
		connections++
		first := connections == 1
		mu.Unlock()
		if first {
			return
		}
		for {
			if _, _, err = conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	sub, err := NewSubscriber(ts.URL, StaticToken("staff"), discardLogger())
	require.NoError(t, err)
	sub.SetReconnectDelay(10 * time.Millisecond)

	snapshots := 0
	sub.OnSnapshot(func(context.Context) error {
		mu.Lock()
		snapshots++
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sub.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return snapshots == 2 && connections == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNewSubscriber_ShouldBuildWebSocketURL(t *testing.T) {
	sub, err := NewSubscriber("https://cafe.example/", StaticToken("t"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "wss://cafe.example/ws", sub.url)

	sub, err = NewSubscriber("http://localhost:8080", StaticToken("t"), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", sub.url)
}

// acceptJoin upgrades the request and completes the join handshake.
func acceptJoin(w http.ResponseWriter, r *http.Request) (*websocket.Conn, bool) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, false
	}
	var join realtime.Envelope
	if conn.ReadJSON(&join) != nil || join.Event != realtime.EventJoinStaff {
		_ = conn.Close()
		return nil, false
	}
	if conn.WriteJSON(realtime.Envelope{Event: realtime.EventJoined}) != nil {
		_ = conn.Close()
		return nil, false
	}
	return conn, true
}

func TestSubscriber_Run_WhenServerGoesSilent_ShouldReconnect(t *testing.T) {
	var connections atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, ok := acceptJoin(w, r)
		if !ok {
			return
		}
		defer conn.Close()
		connections.Add(1)

		// Never ping, never close: a peer that vanished without a FIN.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	sub, err := NewSubscriber(ts.URL, StaticToken("staff"), discardLogger())
	require.NoError(t, err)
	sub.SetReadTimeout(100 * time.Millisecond)
	sub.SetReconnectDelay(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sub.Run(ctx) }()

	require.Eventually(t, func() bool { return connections.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)
}

func TestSubscriber_Run_WhenServerPings_ShouldStayConnected(t *testing.T) {
	var connections, pongs atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, ok := acceptJoin(w, r)
		if !ok {
			return
		}
		defer conn.Close()
		connections.Add(1)

		conn.SetPongHandler(func(string) error {
			pongs.Add(1)
			return nil
		})
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-readerDone:
				return
			case <-ticker.C:
				if conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)) != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(ts.Close)

	sub, err := NewSubscriber(ts.URL, StaticToken("staff"), discardLogger())
	require.NoError(t, err)
	sub.SetReadTimeout(100 * time.Millisecond)
	sub.SetReconnectDelay(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sub.Run(ctx) }()

	require.Eventually(t, func() bool { return pongs.Load() >= 15 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), connections.Load())
}

type tokenBox struct {
	mu    sync.Mutex
	token string
}

func (b *tokenBox) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

func (b *tokenBox) set(token string) {
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
}

func TestSubscriber_Run_WhenTokenIsRejected_ShouldLoginAgain(t *testing.T) {
	var joined atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, ok := acceptJoin(w, r)
		if !ok {
			return
		}
		defer conn.Close()
		joined.Add(1)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ts.Close)

	tokens := &tokenBox{token: "expired"}
	sub, err := NewSubscriber(ts.URL, tokens, discardLogger())
	require.NoError(t, err)
	sub.SetReconnectDelay(10 * time.Millisecond)

	var logins atomic.Int32
	sub.OnUnauthorized(func(context.Context) error {
		logins.Add(1)
		tokens.set("fresh")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = sub.Run(ctx) }()

	require.Eventually(t, func() bool { return joined.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), logins.Load())
}

func TestRetryUnauthorized(t *testing.T) {
	unauthorized := &APIError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}

	t.Run("should log in and retry once", func(t *testing.T) {
		calls, logins := 0, 0
		err := RetryUnauthorized(context.Background(),
			func(context.Context) error { logins++; return nil },
			func(context.Context) error {
				calls++
				if calls == 1 {
					return unauthorized
				}
				return nil
			})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, logins)
	})

	t.Run("should not retry other errors", func(t *testing.T) {
		calls := 0
		err := RetryUnauthorized(context.Background(),
			func(context.Context) error { t.Fatal("unexpected login"); return nil },
			func(context.Context) error {
				calls++
				return &APIError{StatusCode: http.StatusServiceUnavailable}
			})

		require.ErrorIs(t, err, errs.ErrServiceIsUnavailable)
		assert.Equal(t, 1, calls)
	})

	t.Run("should report a failed login", func(t *testing.T) {
		loginErr := errors.New("wrong password")
		err := RetryUnauthorized(context.Background(),
			func(context.Context) error { return loginErr },
			func(context.Context) error { return unauthorized })

		require.ErrorIs(t, err, loginErr)
	})
}
