package menurepo

import (
	"context"

	"qrcafe/internal/adapters/out/postgres/dberr"
	"qrcafe/internal/core/domain/model/menu"

	"gorm.io/gorm"
)

const storeName = "menu store"

// GormMenuRepository implements ports.MenuRepository using GORM.
type GormMenuRepository struct {
	db *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// Add inserts a menu item.
func (r *GormMenuRepository) Add(ctx context.Context, item *menu.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := fromDomain(item)
	// Select("*") so that Available=false is written instead of the column default.
	err := r.db.WithContext(ctx).Select("*").Create(&dto).Error
	return dberr.Translate(err, storeName, "menu item", item.ID().String())
}

// ListAvailable returns available items ordered by category then name.
func (r *GormMenuRepository) ListAvailable(ctx context.Context, category *menu.Category) ([]*menu.Item, error) {
	query := r.db.WithContext(ctx).Where("available = ?", true)
	if category != nil {
		query = query.Where("category = ?", category.String())
	}

	var dtos []MenuItemDTO
	if err := query.Order("category ASC").Order("name ASC").Find(&dtos).Error; err != nil {
		return nil, dberr.Translate(err, storeName, "menu item", "available")
	}

	items := make([]*menu.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
