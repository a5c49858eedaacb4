package http

import (
	"net/http"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/application/usecases/commands"
	"qrcafe/internal/core/application/usecases/queries"
	"qrcafe/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

type lineItemRequest struct {
	ItemID    string       `json:"itemId"`
	Name      string       `json:"name"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Image     string       `json:"image"`
}

type createOrderRequest struct {
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	Table         string            `json:"table"`
	LineItems     []lineItemRequest `json:"lineItems"`
	Notes         string            `json:"notes"`
	Total         *kernel.Money     `json:"total"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	Order readmodel.OrderView `json:"order"`
}

type ordersResponse struct {
	Orders []readmodel.OrderView `json:"orders"`
}

type statsResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}

	lines := make([]commands.LineItemInput, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lines = append(lines, commands.LineItemInput{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(req.CustomerName, req.CustomerPhone, req.Table, lines, req.Notes, req.Total)
	if err != nil {
		return err
	}

	created, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderResponse{Order: readmodel.FromOrder(created)})
}

// ListOrders handles GET /api/orders.
func (s *Server) ListOrders(c echo.Context) error {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return writeError(c, http.StatusBadRequest, "limit must be an integer")
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	query, err := queries.NewListRecentOrdersQuery(n)
	if err != nil {
		return err
	}

	orders, err := s.handlers.ListRecentOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ordersResponse{Orders: orders})
}

// ChangeOrderStatus handles PATCH /api/orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}

	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Required:      true,
	})
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid order id")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, req.Status)
	if err != nil {
		return err
	}

	updated, err := s.handlers.ChangeOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse{Order: readmodel.FromOrder(updated)})
}

// OrderStats handles GET /api/orders/stats.
func (s *Server) OrderStats(c echo.Context) error {
	counts, err := s.handlers.CountOrders.Handle(c.Request().Context(), queries.NewCountOrdersByStatusQuery())
	if err != nil {
		return err
	}

	resp := statsResponse{Counts: make(map[string]int, len(counts))}
	for status, n := range counts {
		resp.Counts[status.String()] = n
		resp.Total += n
	}
	return c.JSON(http.StatusOK, resp)
}
