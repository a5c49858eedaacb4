// Package readmodel holds the JSON shapes of orders and menu items shared by the
// HTTP API, the realtime channel and the staff/customer clients.
package readmodel

import (
	"time"

	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"
)

// OrderView is the wire representation of an order.
type OrderView struct {
	OrderID       string         `json:"orderId"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Table         string         `json:"table"`
	LineItems     []LineItemView `json:"lineItems"`
	Total         kernel.Money   `json:"total"`
	Status        order.Status   `json:"status"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// LineItemView is one line of an OrderView.
type LineItemView struct {
	ItemID    kernel.UUID  `json:"itemId"`
	Name      string       `json:"name"`
	UnitPrice kernel.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	Image     string       `json:"image,omitempty"`
}

// FromOrder maps the aggregate to its view.
func FromOrder(o *order.Order) OrderView {
	items := o.LineItems()
	lines := make([]LineItemView, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemView{
			ItemID:    item.ItemID(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			Image:     item.Image(),
		})
	}

	return OrderView{
		OrderID:       o.Number().String(),
		CustomerName:  o.Customer().Name(),
		CustomerPhone: o.Customer().Phone(),
		Table:         o.Table().String(),
		LineItems:     lines,
		Total:         o.Total(),
		Status:        o.Status(),
		Notes:         o.Notes(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

// FromOrders maps a slice of aggregates, preserving order.
func FromOrders(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, FromOrder(o))
	}
	return views
}
