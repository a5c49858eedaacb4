package queries

import (
	"context"
	"encoding/json"
	"time"

	"qrcafe/internal/adapters/out/postgres/dberr"
	"qrcafe/internal/core/application/readmodel"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListRecentOrdersQueryHandler reads the newest orders straight from the
// orders table into views, without rebuilding aggregates.
//
// Example:
//
//	handler := NewListRecentOrdersQueryHandler(db)
//	query, _ := NewListRecentOrdersQuery(50)
//	snapshot, err := handler.Handle(ctx, query)
type ListRecentOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListRecentOrdersQueryHandler(db *gorm.DB) ListRecentOrdersQueryHandler {
	return ListRecentOrdersQueryHandler{db: db}
}

type lineItemRow struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Handle reads at most query.Limit() orders, newest createdAt first. Orders
// created in the same instant are ordered by id so snapshots are stable.
func (h ListRecentOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListRecentOrdersQuery,
) ([]readmodel.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views := make([]readmodel.OrderView, 0, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			customer_name,
			customer_phone,
			table_number,
			line_items,
			total,
			status,
			notes,
			created_at,
			updated_at
		FROM orders
		ORDER BY created_at DESC, order_id ASC
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, dberr.Translate(err, orderStore, "order", "recent")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			view      readmodel.OrderView
			lineItems []byte
			total     decimal.Decimal
			status    string
			notes     *string
			createdAt time.Time
			updatedAt time.Time
		)

		err = rows.Scan(
			&view.OrderID,
			&view.CustomerName,
			&view.CustomerPhone,
			&view.Table,
			&lineItems,
			&total,
			&status,
			&notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		if view.LineItems, err = lineItemViews(lineItems); err != nil {
			return nil, err
		}
		if view.Total, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}
		if view.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if notes != nil {
			view.Notes = *notes
		}
		view.CreatedAt = createdAt.UTC()
		view.UpdatedAt = updatedAt.UTC()

		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, dberr.Translate(err, orderStore, "order", "recent")
	}

	return views, nil
}

func lineItemViews(raw []byte) ([]readmodel.LineItemView, error) {
	var lines []lineItemRow
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}

	views := make([]readmodel.LineItemView, 0, len(lines))
	for _, line := range lines {
		itemID, err := kernel.UUIDFromString(line.ItemID)
		if err != nil {
			return nil, err
		}
		price, err := kernel.NewMoney(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		views = append(views, readmodel.LineItemView{
			ItemID:    itemID,
			Name:      line.Name,
			UnitPrice: price,
			Quantity:  line.Quantity,
			Image:     line.Image,
		})
	}
	return views, nil
}
