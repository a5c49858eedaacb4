package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpin "qrcafe/internal/adapters/in/http"
	"qrcafe/internal/adapters/out/auth"
	"qrcafe/internal/adapters/out/postgres"
	"qrcafe/internal/adapters/out/postgres/menurepo"
	"qrcafe/internal/adapters/out/realtime"
	"qrcafe/internal/core/application/usecases/commands"
	"qrcafe/internal/core/application/usecases/queries"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/jobs"
	"qrcafe/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *realtime.Hub
	tokens     *auth.TokenService
	hasher     *auth.BcryptHasher
	limiter    *httpin.IPRateLimiter
	metrics    *metrics.Metrics
	docs       *httpin.APIDocs
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	tokens, err := auth.NewTokenService(config.JWTSecret, config.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	docs, err := httpin.LoadAPIDocs(context.Background())
	if err != nil {
		return nil, fmt.Errorf("api docs: %w", err)
	}

	m := metrics.New()
	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		hub:        realtime.NewHub(logger, realtime.WithRecorder(m)),
		tokens:     tokens,
		hasher:     auth.NewBcryptHasher(auth.DefaultBcryptCost),
		limiter:    httpin.NewIPRateLimiter(config.LoginRatePerSecond, config.LoginRateBurst),
		metrics:    m,
		docs:       docs,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) Hub() *realtime.Hub {
	return c.hub
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) staffUoWFactory() commands.StaffUoWFactory {
	return FuncStaffUoWFactory(func() commands.StaffUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		kernel.RandomOrderNumberGenerator,
		c.hub,
		c.logger,
	)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.hub, c.logger)
}

func (c *CompositionRoot) CreateAuthenticateStaffCommandHandler() commands.AuthenticateStaffCommandHandler {
	return commands.NewAuthenticateStaffCommandHandler(c.staffUoWFactory(), c.hasher, c.tokens, c.logger)
}

func (c *CompositionRoot) CreateEnsureStaffMemberCommandHandler() commands.EnsureStaffMemberCommandHandler {
	return commands.NewEnsureStaffMemberCommandHandler(c.staffUoWFactory(), c.hasher, c.logger)
}

func (c *CompositionRoot) CreateListRecentOrdersQueryHandler() queries.ListRecentOrdersQueryHandler {
	return queries.NewListRecentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCountOrdersByStatusQueryHandler() queries.CountOrdersByStatusQueryHandler {
	return queries.NewCountOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableMenuQueryHandler() queries.GetAvailableMenuQueryHandler {
	return queries.NewGetAvailableMenuQueryHandler(menurepo.NewGormMenuRepository(c.gormDB))
}

// CreateHTTPHandler wires every use case into the Echo router.
func (c *CompositionRoot) CreateHTTPHandler() http.Handler {
	createOrder := c.CreateCreateOrderCommandHandler()
	changeStatus := c.CreateChangeOrderStatusCommandHandler()
	authenticate := c.CreateAuthenticateStaffCommandHandler()
	listRecent := c.CreateListRecentOrdersQueryHandler()
	countOrders := c.CreateCountOrdersByStatusQueryHandler()
	getMenu := c.CreateGetAvailableMenuQueryHandler()

	server := httpin.NewServer(
		httpin.Handlers{
			CreateOrder:       &createOrder,
			ChangeOrderStatus: &changeStatus,
			AuthenticateStaff: &authenticate,
			ListRecentOrders:  listRecent,
			CountOrders:       countOrders,
			GetMenu:           getMenu,
		},
		c.tokens,
		c.hub,
		httpin.Options{
			StoreTimeout: c.config.StoreTimeout,
			LoginLimiter: c.limiter,
			Middleware:   []echo.MiddlewareFunc{c.metrics.Middleware()},
			Metrics:      c.metrics.Handler(),
			Docs:         c.docs,
		},
		c.logger,
	)
	return server.Echo()
}

// CreateJobManager registers the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	jm := jobs.NewJobManager(c.logger)
	jm.Register("realtime heartbeat",
		jobs.NewRealtimeHeartbeatJob(c.hub, c.config.HeartbeatSchedule, c.metrics, c.logger))
	jm.Register("order backlog",
		jobs.NewOrderBacklogJob(c.CreateCountOrdersByStatusQueryHandler(), c.metrics, c.config.BacklogSchedule, c.metrics, c.logger))
	jm.Register("login limiter prune",
		jobs.NewRateLimiterPruneJob(c.limiter, c.logger))
	return jm
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncStaffUoWFactory func() commands.StaffUoW

func (f FuncStaffUoWFactory) Create() commands.StaffUoW {
	return f()
}
