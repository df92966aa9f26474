package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBulkAuditRepository implements bulk.AuditRepository using GORM
type GormBulkAuditRepository struct {
	db *gorm.DB
}

// NewGormBulkAuditRepository creates a new GormBulkAuditRepository
func NewGormBulkAuditRepository(db *gorm.DB) *GormBulkAuditRepository {
	return &GormBulkAuditRepository{db: db}
}

// Save persists a bulk operation audit record
func (r *GormBulkAuditRepository) Save(ctx context.Context, record *bulk.AuditRecord) error {
	model := models.BulkAuditModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an audit record by its ID
func (r *GormBulkAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.AuditRecord, error) {
	var model models.BulkAuditModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
