// Package menurepo persists the menu catalog.
package menurepo

import (
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/menu"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItemDTO is the menu_items row. PreparationTime is stored in minutes.
type MenuItemDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"type:varchar(120);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Category        string          `gorm:"type:varchar(16);not null;index"`
	Image           string          `gorm:"type:text"`
	Available       bool            `gorm:"not null;default:true;index"`
	PreparationTime int             `gorm:"not null;default:10"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

func fromDomain(item *menu.Item) MenuItemDTO {
	return MenuItemDTO{
		ID:              item.ID().Bytes(),
		Name:            item.Name(),
		Description:     item.Description(),
		Price:           item.Price().Decimal(),
		Category:        item.Category().String(),
		Image:           item.Image(),
		Available:       item.IsAvailable(),
		PreparationTime: int(item.PreparationTime() / time.Minute),
	}
}

func toDomain(dto MenuItemDTO) (*menu.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	category, err := menu.ParseCategory(dto.Category)
	if err != nil {
		return nil, err
	}
	return menu.NewItem(
		id,
		dto.Name,
		dto.Description,
		price,
		category,
		dto.Image,
		dto.Available,
		time.Duration(dto.PreparationTime)*time.Minute,
	)
}
