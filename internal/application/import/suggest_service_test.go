package importapp

import (
	"context"
	"testing"

	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testAccount(t *testing.T, displayName, username string) account.Account {
	t.Helper()
	acc, err := account.NewAccount(displayName, username, account.PlatformEbay)
	require.NoError(t, err)
	return *acc
}

func TestSuggestService_Suggest(t *testing.T) {
	t.Run("ranks exact match before partial", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindAll", mock.Anything, mock.Anything).Return([]account.Account{
			testAccount(t, "Outlet", "main-store-outlet"),
			testAccount(t, "Main", "main-store"),
		}, nil)

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		candidates, err := svc.Suggest(context.Background(), "main-store")
		require.NoError(t, err)

		require.Len(t, candidates, 2)
		assert.Equal(t, "main-store", candidates[0].PlatformUsername)
		assert.Equal(t, account.MatchExact, candidates[0].MatchType)
		assert.Equal(t, account.MatchPartial, candidates[1].MatchType)
	})

	t.Run("empty token yields empty suggestions without a lookup", func(t *testing.T) {
		repo := new(MockAccountRepository)

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		candidates, err := svc.Suggest(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, candidates)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(MockAccountRepository)
		accountCache := cache.NewInMemoryAccountCache()
		require.NoError(t, accountCache.SetActiveAccounts(context.Background(), []account.Account{
			testAccount(t, "Main", "main-store"),
		}))

		svc := NewSuggestService(repo, accountCache, nil, zap.NewNop())
		candidates, err := svc.Suggest(context.Background(), "main-store")
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and populates the cache", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindAll", mock.Anything, mock.Anything).Return([]account.Account{
			testAccount(t, "Main", "main-store"),
		}, nil).Once()
		accountCache := cache.NewInMemoryAccountCache()

		svc := NewSuggestService(repo, accountCache, nil, zap.NewNop())

		_, err := svc.Suggest(context.Background(), "main-store")
		require.NoError(t, err)
		// Second call hits the freshly filled cache
		_, err = svc.Suggest(context.Background(), "main-store")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestSuggestService_SuggestForFile(t *testing.T) {
	t.Run("extracts seller token from metadata columns", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindAll", mock.Anything, mock.Anything).Return([]account.Account{
			testAccount(t, "Main", "main-store"),
			testAccount(t, "Other", "other-shop"),
		}, nil)

		data := []byte("Order Number,Item Id,Buyer,Seller Username\n" +
			"ORD-1,ITEM-1,alice,main-store\n")

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		token, candidates, err := svc.SuggestForFile(context.Background(), csvimport.KindOrder, data)
		require.NoError(t, err)

		assert.Equal(t, "main-store", token)
		require.Len(t, candidates, 1)
		assert.Equal(t, "main-store", candidates[0].PlatformUsername)
	})

	t.Run("token may appear past blank metadata rows", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindAll", mock.Anything, mock.Anything).Return([]account.Account{
			testAccount(t, "Main", "main-store"),
		}, nil)

		data := []byte("Order Number,Item Id,Buyer,Seller\n" +
			"ORD-1,ITEM-1,alice,\n" +
			"ORD-2,ITEM-2,bob,main-store\n")

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		token, candidates, err := svc.SuggestForFile(context.Background(), csvimport.KindOrder, data)
		require.NoError(t, err)
		assert.Equal(t, "main-store", token)
		require.Len(t, candidates, 1)
	})

	t.Run("no seller column gives empty suggestions", func(t *testing.T) {
		repo := new(MockAccountRepository)

		data := []byte("Order Number,Item Id,Buyer\nORD-1,ITEM-1,alice\n")

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		token, candidates, err := svc.SuggestForFile(context.Background(), csvimport.KindOrder, data)
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Empty(t, candidates)
	})

	t.Run("structurally invalid file fails", func(t *testing.T) {
		repo := new(MockAccountRepository)

		svc := NewSuggestService(repo, nil, nil, zap.NewNop())
		_, _, err := svc.SuggestForFile(context.Background(), csvimport.KindOrder, []byte{})
		require.Error(t, err)
	})
}
