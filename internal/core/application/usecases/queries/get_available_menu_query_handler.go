package queries

import (
	"context"

	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/ports"
)

// GetAvailableMenuQueryHandler reads the orderable part of the menu.
type GetAvailableMenuQueryHandler struct {
	menu ports.MenuRepository
}

func NewGetAvailableMenuQueryHandler(menu ports.MenuRepository) GetAvailableMenuQueryHandler {
	return GetAvailableMenuQueryHandler{menu: menu}
}

// Handle returns available items ordered by category then name.
func (h GetAvailableMenuQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableMenuQuery,
) ([]readmodel.MenuItemView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items, err := h.menu.ListAvailable(ctx, query.Category())
	if err != nil {
		return nil, err
	}

	views := make([]readmodel.MenuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, readmodel.FromMenuItem(item))
	}
	return views, nil
}
