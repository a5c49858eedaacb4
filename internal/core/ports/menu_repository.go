package ports

import (
	"context"

	"qrcafe/internal/core/domain/model/menu"
)

// MenuRepository reads the menu catalog. The catalog is maintained outside this
// service; Add exists for provisioning and tests.
type MenuRepository interface {
	Add(ctx context.Context, item *menu.Item) error

	// ListAvailable returns available items ordered by category then name.
	// A nil category returns every category.
	ListAvailable(ctx context.Context, category *menu.Category) ([]*menu.Item, error)
}
