// Package orderrepo persists order aggregates with GORM. Line items are stored
// as a JSONB snapshot inside the order row; money uses numeric(12,2).
package orderrepo

import (
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Timestamps are owned by the domain, so GORM's automatic time tracking is off.
type OrderDTO struct {
	OrderID       string                           `gorm:"type:varchar(40);primaryKey"`
	CustomerName  string                           `gorm:"type:varchar(100);not null"`
	CustomerPhone string                           `gorm:"type:varchar(32);not null"`
	TableNumber   string                           `gorm:"type:varchar(16);not null"`
	LineItems     datatypes.JSONSlice[LineItemDTO] `gorm:"not null"`
	Total         decimal.Decimal                  `gorm:"type:numeric(12,2);not null"`
	Status        string                           `gorm:"type:varchar(16);not null;index"`
	Notes         string                           `gorm:"type:text"`
	CreatedAt     time.Time                        `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt     time.Time                        `gorm:"not null;autoUpdateTime:false"`
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the line items JSON column.
type LineItemDTO struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.LineItems()
	lines := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemDTO{
			ItemID:    item.ItemID().String(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().Decimal(),
			Quantity:  item.Quantity(),
			Image:     item.Image(),
		})
	}

	return OrderDTO{
		OrderID:       aggregate.Number().String(),
		CustomerName:  aggregate.Customer().Name(),
		CustomerPhone: aggregate.Customer().Phone(),
		TableNumber:   aggregate.Table().String(),
		LineItems:     lines,
		Total:         aggregate.Total().Decimal(),
		Status:        aggregate.Status().String(),
		Notes:         aggregate.Notes(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

// toDomain rebuilds the aggregate through RestoreOrder so stored rows are
// checked against the same invariants as new orders.
func toDomain(dto OrderDTO) (*order.Order, error) {
	number, err := kernel.OrderNumberFromString(dto.OrderID)
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerPhone)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, line := range dto.LineItems {
		itemID, idErr := kernel.UUIDFromString(line.ItemID)
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.NewMoney(line.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.NewLineItem(itemID, line.Name, price, line.Quantity, line.Image)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		number,
		customer,
		order.Table(dto.TableNumber),
		items,
		total,
		status,
		dto.Notes,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
