package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	accountapp "github.com/sellerdesk/backend/internal/application/account"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type accountTestServer struct {
	engine      *gin.Engine
	accountRepo *MockAccountRepository
	orderRepo   *MockOrderRepository
	listingRepo *MockListingRepository
}

func newAccountTestServer() *accountTestServer {
	s := &accountTestServer{
		engine:      gin.New(),
		accountRepo: new(MockAccountRepository),
		orderRepo:   new(MockOrderRepository),
		listingRepo: new(MockListingRepository),
	}
	svc := accountapp.NewAccountService(s.accountRepo, s.orderRepo, s.listingRepo, cache.NewInMemoryAccountCache(), zap.NewNop())
	NewAccountHandler(svc).RegisterRoutes(s.engine.Group("/api/v1"))
	return s
}

func TestAccountHandler_Create(t *testing.T) {
	t.Run("creates an account", func(t *testing.T) {
		s := newAccountTestServer()
		s.accountRepo.On("FindByPlatformUsername", mock.Anything, "main-store").Return(nil, shared.ErrNotFound)
		s.accountRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		payload, _ := json.Marshal(dto.CreateAccountRequest{
			DisplayName:      "Main Store",
			PlatformUsername: "main-store",
			Platform:         "ebay",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data dto.AccountResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Main Store", resp.Data.DisplayName)
		assert.Equal(t, "ebay", resp.Data.Platform)
		assert.True(t, resp.Data.Active)
	})

	t.Run("duplicate username is a 409", func(t *testing.T) {
		s := newAccountTestServer()
		acc, err := account.NewAccount("Main Store", "main-store", account.PlatformEbay)
		require.NoError(t, err)
		s.accountRepo.On("FindByPlatformUsername", mock.Anything, "main-store").Return(acc, nil)

		payload, _ := json.Marshal(dto.CreateAccountRequest{
			DisplayName:      "Other",
			PlatformUsername: "main-store",
			Platform:         "ebay",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		s := newAccountTestServer()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandler_Get(t *testing.T) {
	t.Run("unknown account is a 404", func(t *testing.T) {
		s := newAccountTestServer()
		id := uuid.New()
		s.accountRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+id.String(), nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id is a 400", func(t *testing.T) {
		s := newAccountTestServer()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/nope", nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandler_ListOrders(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		s := newAccountTestServer()
		acc, err := account.NewAccount("Main Store", "main-store", account.PlatformEbay)
		require.NoError(t, err)

		o, err := order.NewOrder(acc.ID, "ORD-1", "ITEM-1", "alice")
		require.NoError(t, err)

		s.accountRepo.On("FindByID", mock.Anything, acc.ID).Return(acc, nil)
		s.orderRepo.On("FindByAccount", mock.Anything, acc.ID, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["status"] == "pending"
		})).Return([]order.Order{*o}, int64(1), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+acc.ID.String()+"/orders?status=pending", nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []dto.OrderResponse `json:"data"`
			Meta *dto.Meta           `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "ORD-1", resp.Data[0].OrderNumber)
		assert.Equal(t, "pending", resp.Data[0].Status)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
	})

	t.Run("unknown status is a 400", func(t *testing.T) {
		s := newAccountTestServer()
		acc, err := account.NewAccount("Main Store", "main-store", account.PlatformEbay)
		require.NoError(t, err)
		s.accountRepo.On("FindByID", mock.Anything, acc.ID).Return(acc, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+acc.ID.String()+"/orders?status=archived", nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
