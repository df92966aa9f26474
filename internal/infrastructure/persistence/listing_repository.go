package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount finds listings for a seller account with the total count
func (r *GormListingRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]listing.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ListingModel{}).Where("account_id = ?", accountID)

	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ListingSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var listingModels []models.ListingModel
	if err := query.Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&listingModels).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = *model.ToDomain()
	}
	return listings, total, nil
}

// ExistingItemIDs returns the subset of the given item ids already stored for
// the account. One batched query regardless of input size.
func (r *GormListingRepository) ExistingItemIDs(ctx context.Context, accountID uuid.UUID, itemIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(itemIDs))
	if len(itemIDs) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).Model(&models.ListingModel{}).
		Where("account_id = ? AND item_id IN ?", accountID, itemIDs).
		Pluck("item_id", &found).Error; err != nil {
		return nil, err
	}

	for _, itemID := range found {
		existing[itemID] = struct{}{}
	}
	return existing, nil
}

// InsertBatch persists new listings, counting rows dropped by the
// (account_id, item_id) unique index as conflicts.
func (r *GormListingRepository) InsertBatch(ctx context.Context, listings []*listing.Listing) (int, int, error) {
	if len(listings) == 0 {
		return 0, 0, nil
	}

	listingModels := make([]models.ListingModel, len(listings))
	for i, l := range listings {
		listingModels[i] = *models.ListingModelFromDomain(l)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&listingModels)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	inserted := int(result.RowsAffected)
	conflicts := len(listings) - inserted
	return inserted, conflicts, nil
}
