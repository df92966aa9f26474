package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds orders for a seller account with the total count
func (r *GormOrderRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("account_id = ?", accountID)

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orderModels []models.OrderModel
	if err := query.Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, total, nil
}

// ExistingNumbers returns the subset of the given order numbers already stored
// for the account. One batched query regardless of input size.
func (r *GormOrderRepository) ExistingNumbers(ctx context.Context, accountID uuid.UUID, numbers []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(numbers))
	if len(numbers) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("account_id = ? AND order_number IN ?", accountID, numbers).
		Pluck("order_number", &found).Error; err != nil {
		return nil, err
	}

	for _, number := range found {
		existing[number] = struct{}{}
	}
	return existing, nil
}

// InsertBatch persists new orders. Rows that hit the (account_id,
// order_number) unique index are dropped by the database and counted as
// conflicts; a concurrent import of an overlapping file loses those rows
// instead of failing the batch.
func (r *GormOrderRepository) InsertBatch(ctx context.Context, orders []*order.Order) (int, int, error) {
	if len(orders) == 0 {
		return 0, 0, nil
	}

	orderModels := make([]models.OrderModel, len(orders))
	for i, o := range orders {
		orderModels[i] = *models.OrderModelFromDomain(o)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "order_number"}},
			DoNothing: true,
		}).
		Create(&orderModels)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	inserted := int(result.RowsAffected)
	conflicts := len(orders) - inserted
	return inserted, conflicts, nil
}

// GetStatus returns just the current status of an order
func (r *GormOrderRepository) GetStatus(ctx context.Context, id uuid.UUID) (order.Status, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status").
		Where("id = ?", id).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Status, nil
}

// UpdateStatus persists a status transition with its timestamps
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":       o.Status,
			"shipped_at":   o.ShippedAt,
			"completed_at": o.CompletedAt,
			"updated_at":   o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
