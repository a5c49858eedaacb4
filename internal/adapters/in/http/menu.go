package http

import (
	"net/http"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type menuResponse struct {
	MenuItems []readmodel.MenuItemView `json:"menuItems"`
}

// GetMenu handles GET /api/menu.
func (s *Server) GetMenu(c echo.Context) error {
	query, err := queries.NewGetAvailableMenuQuery(c.QueryParam("category"))
	if err != nil {
		return err
	}

	items, err := s.handlers.GetMenu.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{MenuItems: items})
}
