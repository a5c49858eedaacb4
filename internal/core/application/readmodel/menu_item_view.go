package readmodel

import (
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/menu"
)

// MenuItemView is the wire representation of a menu item.
// PreparationTime is expressed in minutes.
type MenuItemView struct {
	ID              kernel.UUID   `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Price           kernel.Money  `json:"price"`
	Category        menu.Category `json:"category"`
	Image           string        `json:"image,omitempty"`
	Available       bool          `json:"available"`
	PreparationTime int           `json:"preparationTime"`
}

// FromMenuItem maps a menu item to its view.
func FromMenuItem(item *menu.Item) MenuItemView {
	return MenuItemView{
		ID:              item.ID(),
		Name:            item.Name(),
		Description:     item.Description(),
		Price:           item.Price(),
		Category:        item.Category(),
		Image:           item.Image(),
		Available:       item.IsAvailable(),
		PreparationTime: int(item.PreparationTime().Minutes()),
	}
}
