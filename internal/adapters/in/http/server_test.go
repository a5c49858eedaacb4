package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qrcafe/internal/adapters/out/auth"
	"qrcafe/internal/adapters/out/realtime"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/application/usecases/commands"
	"qrcafe/internal/core/application/usecases/queries"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/menu"
	"qrcafe/internal/core/domain/model/order"
	"qrcafe/internal/core/domain/model/staff"
	"qrcafe/internal/core/ports"
	"qrcafe/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staffToken = "staff-token"

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (auth.Principal, error) {
	if token != staffToken {
		return auth.Principal{}, errs.NewCredentialsAreInvalidError(nil)
	}
	return auth.Principal{MemberID: "1", Username: "admin", Role: staff.DefaultRole}, nil
}

type createOrderFunc func(context.Context, commands.CreateOrderCommand) (*order.Order, error)

func (f createOrderFunc) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	return f(ctx, cmd)
}

type changeStatusFunc func(context.Context, commands.ChangeOrderStatusCommand) (*order.Order, error)

func (f changeStatusFunc) Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
	return f(ctx, cmd)
}

type authenticateFunc func(context.Context, commands.AuthenticateStaffCommand) (commands.AuthenticateStaffResult, error)

func (f authenticateFunc) Handle(
	ctx context.Context,
	cmd commands.AuthenticateStaffCommand,
) (commands.AuthenticateStaffResult, error) {
	return f(ctx, cmd)
}

type listRecentFunc func(context.Context, queries.ListRecentOrdersQuery) ([]readmodel.OrderView, error)

func (f listRecentFunc) Handle(ctx context.Context, q queries.ListRecentOrdersQuery) ([]readmodel.OrderView, error) {
	return f(ctx, q)
}

type countFunc func(context.Context, queries.CountOrdersByStatusQuery) (map[order.Status]int, error)

func (f countFunc) Handle(ctx context.Context, q queries.CountOrdersByStatusQuery) (map[order.Status]int, error) {
	return f(ctx, q)
}

type menuFunc func(context.Context, queries.GetAvailableMenuQuery) ([]readmodel.MenuItemView, error)

func (f menuFunc) Handle(ctx context.Context, q queries.GetAvailableMenuQuery) ([]readmodel.MenuItemView, error) {
	return f(ctx, q)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	customer, err := order.NewCustomer("Ann", "+1 555 0100")
	require.NoError(t, err)
	table, err := order.NewTable("T4")
	require.NoError(t, err)
	latte, err := order.NewLineItem(kernel.NewUUID(), "Latte", kernel.MustMoney("4.50"), 2, "")
	require.NoError(t, err)
	croissant, err := order.NewLineItem(kernel.NewUUID(), "Croissant", kernel.MustMoney("2.75"), 1, "")
	require.NoError(t, err)
	number, err := kernel.OrderNumberFromString("ORD-250101-00000000000A")
	require.NoError(t, err)

	o, err := order.NewOrder(number, customer, table, []order.LineItem{latte, croissant}, "",
		time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func newTestServer(handlers Handlers, opts Options) *Server {
	return NewServer(handlers, fakeVerifier{}, realtime.NewHub(discardLogger()), opts, discardLogger())
}

func do(t *testing.T, s *Server, method, target, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) Error {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestServer_CreateOrder(t *testing.T) {
	t.Run("returns 201 with the stored order", func(t *testing.T) {
		var got commands.CreateOrderCommand
		s := newTestServer(Handlers{
			CreateOrder: createOrderFunc(func(_ context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
				got = cmd
				return sampleOrder(t), nil
			}),
		}, Options{})

		rec := do(t, s, http.MethodPost, "/api/orders", `{
			"customerName": "Ann",
			"customerPhone": "+1 555 0100",
			"table": "T4",
			"lineItems": [
				{"itemId": "4f1d4a9e-9c3e-4c6c-9d0e-0a1b2c3d4e5f", "name": "Latte", "unitPrice": 4.5, "quantity": 2},
				{"itemId": "7a0e2b0c-1d2e-4f3a-8b9c-0d1e2f3a4b5c", "name": "Croissant", "unitPrice": "2.75", "quantity": 1}
			],
			"total": 11.75
		}`, "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ORD-250101-00000000000A", body.Order.OrderID)
		assert.Equal(t, "11.75", body.Order.Total.String())
		assert.Equal(t, order.Pending, body.Order.Status)
		assert.Len(t, got.LineItems(), 2)
	})

	t.Run("rejects an empty cart with 400", func(t *testing.T) {
		s := newTestServer(Handlers{}, Options{})

		rec := do(t, s, http.MethodPost, "/api/orders",
			`{"customerName":"Ann","customerPhone":"555 0100","table":"T4","lineItems":[]}`, "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
	})

	t.Run("rejects malformed json with 400", func(t *testing.T) {
		s := newTestServer(Handlers{}, Options{})
		rec := do(t, s, http.MethodPost, "/api/orders", `{"customerName":`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps a duplicate id to 409", func(t *testing.T) {
		s := newTestServer(Handlers{
			CreateOrder: createOrderFunc(func(context.Context, commands.CreateOrderCommand) (*order.Order, error) {
				return nil, errs.NewObjectAlreadyExistsError("orderId", "ORD-1")
			}),
		}, Options{})

		rec := do(t, s, http.MethodPost, "/api/orders", `{
			"customerName":"Ann","customerPhone":"555 0100","table":"T4",
			"lineItems":[{"itemId":"4f1d4a9e-9c3e-4c6c-9d0e-0a1b2c3d4e5f","name":"Latte","unitPrice":4.5,"quantity":1}]
		}`, "")
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_ListOrders_WhenTokenIsMissing_ShouldReject(t *testing.T) {
	var limit int
	s := newTestServer(Handlers{
		ListRecentOrders: listRecentFunc(func(_ context.Context, q queries.ListRecentOrdersQuery) ([]readmodel.OrderView, error) {
			limit = q.Limit()
			return []readmodel.OrderView{readmodel.FromOrder(sampleOrder(t))}, nil
		}),
	}, Options{})

	rec := do(t, s, http.MethodGet, "/api/orders", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/orders", "", "forged")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/orders?limit=10", "", staffToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, limit)
	var body ordersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Orders, 1)

	rec = do(t, s, http.MethodGet, "/api/orders?token="+staffToken, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ports.DefaultListLimit, limit)

	rec = do(t, s, http.MethodGet, "/api/orders?limit=1000", "", staffToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ChangeOrderStatus_ShouldMapErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", errs.NewTransitionIsInvalidError("pending", "preparing"), http.StatusBadRequest},
		{"unknown order", errs.NewObjectNotFoundError("orderId", "ORD-1"), http.StatusNotFound},
		{"store unavailable", errs.NewServiceIsUnavailableError("order store"), http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"unexpected", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Handlers{
				ChangeOrderStatus: changeStatusFunc(func(context.Context, commands.ChangeOrderStatusCommand) (*order.Order, error) {
					return nil, tt.err
				}),
			}, Options{})

			rec := do(t, s, http.MethodPatch, "/api/orders/ORD-250101-00000000000A/status", `{"status":"preparing"}`, staffToken)
			require.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Code)
		})
	}
}

func TestServer_ChangeOrderStatus_Success(t *testing.T) {
	var got commands.ChangeOrderStatusCommand
	s := newTestServer(Handlers{
		ChangeOrderStatus: changeStatusFunc(func(_ context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error) {
			got = cmd
			o := sampleOrder(t)
			require.NoError(t, o.ChangeStatus(order.Confirmed, o.CreatedAt().Add(time.Minute)))
			return o, nil
		}),
	}, Options{})

	rec := do(t, s, http.MethodPatch, "/api/orders/ORD-250101-00000000000A/status", `{"status":"confirmed"}`, staffToken)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-250101-00000000000A", got.OrderID().String())
	assert.Equal(t, order.Confirmed, got.Target())
	var body orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, order.Confirmed, body.Order.Status)
}

func TestServer_ChangeOrderStatus_WhenStatusIsUnknown_ShouldReject(t *testing.T) {
	s := newTestServer(Handlers{}, Options{})
	rec := do(t, s, http.MethodPatch, "/api/orders/ORD-250101-00000000000A/status", `{"status":"eaten"}`, staffToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ChangeOrderStatus_WhenIDIsMalformed_ShouldReturnNotFound(t *testing.T) {
	s := newTestServer(Handlers{
		ChangeOrderStatus: changeStatusFunc(func(context.Context, commands.ChangeOrderStatusCommand) (*order.Order, error) {
			t.Fatal("handler must not run for a malformed id")
			return nil, nil
		}),
	}, Options{})

	rec := do(t, s, http.MethodPatch, "/api/orders/not-an-order/status", `{"status":"confirmed"}`, staffToken)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
}

func TestServer_OrderStats(t *testing.T) {
	s := newTestServer(Handlers{
		CountOrders: countFunc(func(context.Context, queries.CountOrdersByStatusQuery) (map[order.Status]int, error) {
			return map[order.Status]int{order.Pending: 2, order.Ready: 1, order.Completed: 0}, nil
		}),
	}, Options{})

	rec := do(t, s, http.MethodGet, "/api/orders/stats", "", staffToken)

	require.Equal(t, http.StatusOK, rec.Code)
	var body statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 2, body.Counts["pending"])
}

func TestServer_GetMenu(t *testing.T) {
	var category *menu.Category
	s := newTestServer(Handlers{
		GetMenu: menuFunc(func(_ context.Context, q queries.GetAvailableMenuQuery) ([]readmodel.MenuItemView, error) {
			category = q.Category()
			return []readmodel.MenuItemView{{Name: "Latte", Price: kernel.MustMoney("4.50"), Available: true}}, nil
		}),
	}, Options{})

	rec := do(t, s, http.MethodGet, "/api/menu?category=coffee", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, category)
	assert.Equal(t, menu.Coffee, *category)

	var body menuResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.MenuItems, 1)

	rec = do(t, s, http.MethodGet, "/api/menu?category=soup", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Login(t *testing.T) {
	member, err := staff.NewMember(kernel.NewUUID(), "admin", "hash", "")
	require.NoError(t, err)

	handlers := Handlers{
		AuthenticateStaff: authenticateFunc(func(
			_ context.Context,
			cmd commands.AuthenticateStaffCommand,
		) (commands.AuthenticateStaffResult, error) {
			if cmd.Password() != "s3cret-pass" {
				return commands.AuthenticateStaffResult{}, errs.NewCredentialsAreInvalidError(nil)
			}
			return commands.AuthenticateStaffResult{Token: "jwt", ExpiresAt: time.Now().Add(time.Hour), Member: member}, nil
		}),
	}

	t.Run("issues a token", func(t *testing.T) {
		s := newTestServer(handlers, Options{})
		rec := do(t, s, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"s3cret-pass"}`, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "jwt", body.Token)
		assert.Equal(t, "admin", body.Staff.Username)
		assert.Equal(t, member.ID().String(), body.Staff.ID)
	})

	t.Run("rejects wrong password with 401", func(t *testing.T) {
		s := newTestServer(handlers, Options{})
		rec := do(t, s, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", decodeError(t, rec).Message)
	})

	t.Run("rate limits per client", func(t *testing.T) {
		s := newTestServer(handlers, Options{LoginLimiter: NewIPRateLimiter(0.001, 2)})
		e := s.Echo()

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"username":"admin","password":"nope"}`))
			req.Header.Set("Content-Type", "application/json")
			req.RemoteAddr = "10.0.0.7:5000"
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
	})
}

func TestIPRateLimiter_Prune(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now.Add(9*time.Minute))

	assert.Equal(t, 1, l.Prune(now.Add(11*time.Minute)))
	assert.Len(t, l.limiters, 1)
}

func TestServer_Health(t *testing.T) {
	rec := do(t, newTestServer(Handlers{}, Options{}), http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_Realtime_ShouldDeliverOrderEvents(t *testing.T) {
	hub := realtime.NewHub(discardLogger())
	s := NewServer(Handlers{}, fakeVerifier{}, hub, Options{}, discardLogger())
	ts := httptest.NewServer(s.Echo())
	t.Cleanup(ts.Close)
	t.Cleanup(hub.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+staffToken, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.WriteJSON(realtime.Envelope{Event: realtime.EventJoinStaff}))

	var ack realtime.Envelope
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, realtime.EventJoined, ack.Event)

	require.NoError(t, hub.Publish(context.Background(), ports.OrderCreated, sampleOrder(t)))

	var event realtime.Envelope
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, realtime.EventOrderCreated, event.Event)

	var view readmodel.OrderView
	require.NoError(t, json.Unmarshal(event.Data, &view))
	assert.Equal(t, "11.75", view.Total.String())
}
