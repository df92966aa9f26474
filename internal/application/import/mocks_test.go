package importapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of account.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByPlatformUsername(ctx context.Context, username string) (*account.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]account.Account, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]account.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ExistingNumbers(ctx context.Context, accountID uuid.UUID, numbers []string) (map[string]struct{}, error) {
	args := m.Called(ctx, accountID, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockOrderRepository) InsertBatch(ctx context.Context, orders []*order.Order) (int, int, error) {
	args := m.Called(ctx, orders)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) GetStatus(ctx context.Context, id uuid.UUID) (order.Status, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Status), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockListingRepository is a mock implementation of listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]listing.Listing, int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]listing.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) ExistingItemIDs(ctx context.Context, accountID uuid.UUID, itemIDs []string) (map[string]struct{}, error) {
	args := m.Called(ctx, accountID, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockListingRepository) InsertBatch(ctx context.Context, listings []*listing.Listing) (int, int, error) {
	args := m.Called(ctx, listings)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockImportHistoryRepository is a mock implementation of bulk.ImportHistoryRepository
type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) FindAll(ctx context.Context, filter bulk.ImportHistoryFilter, page, pageSize int) ([]*bulk.ImportHistory, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]*bulk.ImportHistory), args.Get(1).(int64), args.Error(2)
}

func (m *MockImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// MockArchiver is a mock implementation of storage.Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockArchiver) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockArchiver) Exists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockArchiver) Delete(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}
