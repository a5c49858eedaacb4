package queries

import (
	"context"

	"qrcafe/internal/adapters/out/postgres/dberr"
	"qrcafe/internal/core/domain/model/order"

	"gorm.io/gorm"
)

const orderStore = "order store"

// CountOrdersByStatusQueryHandler reports the order backlog per status.
type CountOrdersByStatusQueryHandler struct {
	db *gorm.DB
}

func NewCountOrdersByStatusQueryHandler(db *gorm.DB) CountOrdersByStatusQueryHandler {
	return CountOrdersByStatusQueryHandler{db: db}
}

// Handle returns a count for every status; statuses without orders map to 0.
func (h CountOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query CountOrdersByStatusQuery,
) (map[order.Status]int, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int, len(order.Statuses()))
	for _, status := range order.Statuses() {
		counts[status] = 0
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			COUNT(*)
		FROM orders
		GROUP BY status
	`).Rows()
	if err != nil {
		return nil, dberr.Translate(err, orderStore, "order", "counts")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			raw   string
			count int
		)
		if err = rows.Scan(&raw, &count); err != nil {
			return nil, err
		}

		status, parseErr := order.ParseStatus(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, dberr.Translate(err, orderStore, "order", "counts")
	}

	return counts, nil
}
