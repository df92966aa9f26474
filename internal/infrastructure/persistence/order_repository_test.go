package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		accountID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "account_id", "order_number",
			"item_id", "buyer_name", "quantity", "total_amount", "currency", "status",
		}).AddRow(orderID, now, now, accountID, "ORD-100", "ITEM-1", "alice", 2, decimal.NewFromInt(30), "USD", "pending")

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(rows)

		found, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, found.ID)
		assert.Equal(t, "ORD-100", found.OrderNumber)
		assert.Equal(t, order.StatusPending, found.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), orderID)

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_ExistingNumbers(t *testing.T) {
	t.Run("returns matching numbers from one batched query", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		accountID := uuid.New()
		rows := sqlmock.NewRows([]string{"order_number"}).
			AddRow("ORD-100").
			AddRow("ORD-102")

		mock.ExpectQuery(`SELECT "order_number" FROM "orders" WHERE account_id = \$1 AND order_number IN \(\$2,\$3,\$4\)`).
			WithArgs(accountID, "ORD-100", "ORD-101", "ORD-102").
			WillReturnRows(rows)

		existing, err := repo.ExistingNumbers(context.Background(), accountID, []string{"ORD-100", "ORD-101", "ORD-102"})

		require.NoError(t, err)
		assert.Len(t, existing, 2)
		assert.Contains(t, existing, "ORD-100")
		assert.Contains(t, existing, "ORD-102")
		assert.NotContains(t, existing, "ORD-101")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		existing, err := repo.ExistingNumbers(context.Background(), uuid.New(), nil)

		require.NoError(t, err)
		assert.Empty(t, existing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_GetStatus(t *testing.T) {
	t.Run("returns current status", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT "status" FROM "orders" WHERE id = \$1 LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("shipped"))

		status, err := repo.GetStatus(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing order yields ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		mock.ExpectQuery(`SELECT "status" FROM "orders" WHERE id = \$1 LIMIT .*`).
			WithArgs(orderID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetStatus(context.Background(), orderID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_UpdateStatus(t *testing.T) {
	t.Run("updates status columns", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o, err := order.NewOrder(uuid.New(), "ORD-100", "ITEM-1", "alice")
		require.NoError(t, err)
		require.NoError(t, o.Transition(order.StatusProcessing))

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(context.Background(), o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected yields ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		o, err := order.NewOrder(uuid.New(), "ORD-100", "ITEM-1", "alice")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, shared.ErrNotFound, repo.UpdateStatus(context.Background(), o))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByAccount(t *testing.T) {
	t.Run("returns page and total count", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		accountID := uuid.New()
		orderID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE account_id = \$1`).
			WithArgs(accountID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "account_id", "order_number",
			"item_id", "buyer_name", "quantity", "total_amount", "currency", "status",
		}).AddRow(orderID, now, now, accountID, "ORD-100", "ITEM-1", "alice", 1, decimal.Zero, "USD", "pending")

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE account_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(rows)

		orders, total, err := repo.FindByAccount(context.Background(), accountID, shared.DefaultFilter())

		require.NoError(t, err)
		assert.EqualValues(t, 42, total)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-100", orders[0].OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
