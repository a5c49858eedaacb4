// Package http is the Echo adapter exposing the order API, the staff login,
// the realtime channel, health, metrics and the OpenAPI documentation.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/application/usecases/commands"
	"qrcafe/internal/core/application/usecases/queries"
	"qrcafe/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	OrderStatusChanger interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (*order.Order, error)
	}
	StaffAuthenticator interface {
		Handle(ctx context.Context, cmd commands.AuthenticateStaffCommand) (commands.AuthenticateStaffResult, error)
	}
	RecentOrdersLister interface {
		Handle(ctx context.Context, query queries.ListRecentOrdersQuery) ([]readmodel.OrderView, error)
	}
	OrderStatusCounter interface {
		Handle(ctx context.Context, query queries.CountOrdersByStatusQuery) (map[order.Status]int, error)
	}
	MenuLister interface {
		Handle(ctx context.Context, query queries.GetAvailableMenuQuery) ([]readmodel.MenuItemView, error)
	}
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder       OrderCreator
	ChangeOrderStatus OrderStatusChanger
	AuthenticateStaff StaffAuthenticator
	ListRecentOrders  RecentOrdersLister
	CountOrders       OrderStatusCounter
	GetMenu           MenuLister
}

// Options configures cross-cutting behaviour of the server.
type Options struct {
	StoreTimeout time.Duration
	LoginLimiter *IPRateLimiter
	Middleware   []echo.MiddlewareFunc
	Metrics      http.Handler
	// Docs validates /api requests and serves /openapi.yaml and /docs when set.
	Docs *APIDocs
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	tokens   TokenVerifier
	realtime RealtimeServer
	opts     Options
	logger   *slog.Logger
}

func NewServer(
	handlers Handlers,
	tokens TokenVerifier,
	realtime RealtimeServer,
	opts Options,
	logger *slog.Logger,
) *Server {
	return &Server{
		handlers: handlers,
		tokens:   tokens,
		realtime: realtime,
		opts:     opts,
		logger:   logger.With("component", "http_server"),
	}
}

// Echo builds the router with every route registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(s.logger)

	e.Use(RequestLogger(s.logger))
	e.Use(s.opts.Middleware...)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if s.opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.opts.Metrics))
	}

	staff := RequireStaff(s.tokens)

	api := e.Group("/api", StoreTimeout(s.opts.StoreTimeout))
	if s.opts.Docs != nil {
		api.Use(s.opts.Docs.ValidateRequests())
		s.opts.Docs.mount(e)
	}
	api.GET("/menu", s.GetMenu)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders, staff)
	api.GET("/orders/stats", s.OrderStats, staff)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus, staff)

	login := []echo.MiddlewareFunc{}
	if s.opts.LoginLimiter != nil {
		login = append(login, s.opts.LoginLimiter.Middleware())
	}
	api.POST("/auth/login", s.Login, login...)

	e.GET("/ws", s.Realtime, staff)
	return e
}
