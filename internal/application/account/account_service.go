// Package accountapp implements use cases for managing seller accounts.
package accountapp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/listing"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// AccountService manages seller accounts and the per-account order and
// listing views. Mutations invalidate the active-account cache so match
// suggestions never run against a stale account set.
type AccountService struct {
	accountRepo account.Repository
	orderRepo   order.Repository
	listingRepo listing.Repository
	accounts    cache.AccountCache
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo account.Repository,
	orderRepo order.Repository,
	listingRepo listing.Repository,
	accounts cache.AccountCache,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		accounts:    accounts,
		logger:      logger,
	}
}

// CreateAccountInput carries the fields for registering a seller account
type CreateAccountInput struct {
	DisplayName      string
	PlatformUsername string
	Platform         string
	Notes            string
}

// Create registers a new seller account. The platform username must be
// unique across accounts because it is the key file suggestions match on.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) (*account.Account, error) {
	existing, err := s.accountRepo.FindByPlatformUsername(ctx, input.PlatformUsername)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this platform username already exists")
	}

	acc, err := account.NewAccount(input.DisplayName, input.PlatformUsername, account.Platform(input.Platform))
	if err != nil {
		return nil, err
	}
	if input.Notes != "" {
		acc.SetNotes(input.Notes)
	}

	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return acc, nil
}

// Get retrieves a single account by id
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.FindByID(ctx, id)
}

// List returns accounts matching the filter
func (s *AccountService) List(ctx context.Context, filter shared.Filter) ([]account.Account, int64, error) {
	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// Deactivate marks an account inactive, removing it from match suggestions
func (s *AccountService) Deactivate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	acc, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	acc.Deactivate()
	if err := s.accountRepo.Save(ctx, acc); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return acc, nil
}

// ListOrders returns one account's orders, optionally filtered by status
func (s *AccountService) ListOrders(ctx context.Context, accountID uuid.UUID, status string, filter shared.Filter) ([]order.Order, int64, error) {
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, 0, err
	}
	if status != "" {
		if !order.Status(status).IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+status)
		}
		if filter.Filters == nil {
			filter.Filters = make(map[string]interface{})
		}
		filter.Filters["status"] = status
	}
	return s.orderRepo.FindByAccount(ctx, accountID, filter)
}

// ListListings returns one account's listings
func (s *AccountService) ListListings(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]listing.Listing, int64, error) {
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, 0, err
	}
	return s.listingRepo.FindByAccount(ctx, accountID, filter)
}

func (s *AccountService) invalidateCache(ctx context.Context) {
	if s.accounts == nil {
		return
	}
	if err := s.accounts.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate account cache", zap.Error(err))
	}
}
