package orderrepo

import (
	"context"
	"time"

	"qrcafe/internal/adapters/out/postgres/dberr"
	"qrcafe/internal/core/domain/model/kernel"
	"qrcafe/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const storeName = "order store"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order row.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return dberr.Translate(err, storeName, "order", dto.OrderID)
}

// Get retrieves an order by its number.
func (r *GormOrderRepository) Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", number.String()).Error; err != nil {
		return nil, dberr.Translate(err, storeName, "order", number.String())
	}

	return toDomain(dto)
}

// UpdateStatus performs a single-row compare-and-set on the status column.
// It returns the stored row after the update, or nil when no row had the
// expected status.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	number kernel.OrderNumber,
	expected order.Status,
	target order.Status,
	at time.Time,
) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var updated []OrderDTO
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("order_id = ? AND status = ?", number.String(), expected.String()).
		Updates(map[string]any{
			"status":     target.String(),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return nil, dberr.Translate(result.Error, storeName, "order", number.String())
	}

	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, nil //nolint:nilnil // nil order signals a lost compare-and-set
	}

	return toDomain(updated[0])
}
