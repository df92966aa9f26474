package accountapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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
