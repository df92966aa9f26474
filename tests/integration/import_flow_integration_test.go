package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bulkapp "github.com/sellerdesk/backend/internal/application/bulk"
	importapp "github.com/sellerdesk/backend/internal/application/import"
	"github.com/sellerdesk/backend/internal/domain/account"
	"github.com/sellerdesk/backend/internal/domain/bulk"
	"github.com/sellerdesk/backend/internal/domain/order"
	"github.com/sellerdesk/backend/internal/domain/shared"
	csvimport "github.com/sellerdesk/backend/internal/infrastructure/import"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence"
	"github.com/sellerdesk/backend/internal/infrastructure/storage"
)

const orderImportCSV = `Order Number,Item Id,Buyer,Quantity,Total,Currency
ORD-1001,ITEM-1,alice,2,39.98,USD
ORD-1002,ITEM-2,bob,1,12.50,USD
ORD-1002,ITEM-2,bob,1,12.50,USD
ORD-1003,ITEM-3,carol,1,7.00,USD
`

// TestImportAndBulkStatusFlow_Integration walks the whole pipeline against a
// real database: import an order file, watch the upload session complete,
// then bulk-transition the imported orders and check the audit trail.
func TestImportAndBulkStatusFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	accountRepo := persistence.NewGormAccountRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(testDB.DB)
	auditRepo := persistence.NewGormBulkAuditRepository(testDB.DB)

	tracker := csvimport.NewTracker(time.Minute)
	t.Cleanup(tracker.Stop)

	importService := importapp.NewOrderImportService(
		accountRepo, orderRepo, historyRepo, tracker,
		storage.NewNoopArchiver(), nil, importapp.DefaultLimits())
	statusService := bulkapp.NewStatusService(orderRepo, auditRepo, nil, 100)

	acc, err := account.NewAccount("Flow Store", "flow-store", account.PlatformEbay)
	require.NoError(t, err)
	require.NoError(t, accountRepo.Save(ctx, acc))

	// Import. The in-file duplicate of ORD-1002 must be dropped.
	uploadID, err := importService.Submit(ctx, acc.ID, "orders.csv", []byte(orderImportCSV))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		session, ok := tracker.Get(uploadID)
		return ok && session.State.IsTerminal()
	}, 10*time.Second, 50*time.Millisecond, "import did not finish")

	session, ok := tracker.Get(uploadID)
	require.True(t, ok)
	require.Equal(t, csvimport.StateCompleted, session.State)
	require.NotNil(t, session.Summary)
	assert.Equal(t, 4, session.Summary.TotalRows)
	assert.Equal(t, 3, session.Summary.ImportedRows)
	assert.Equal(t, 1, session.Summary.DuplicateRows)

	orders, total, err := orderRepo.FindByAccount(ctx, acc.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	for _, o := range orders {
		assert.Equal(t, order.StatusPending, o.Status)
	}

	// Re-importing the same file is all duplicates, nothing new inserted.
	secondID, err := importService.Submit(ctx, acc.ID, "orders.csv", []byte(orderImportCSV))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		s, ok := tracker.Get(secondID)
		return ok && s.State.IsTerminal()
	}, 10*time.Second, 50*time.Millisecond)

	second, _ := tracker.Get(secondID)
	require.Equal(t, csvimport.StateCompleted, second.State)
	assert.Equal(t, 0, second.Summary.ImportedRows)
	assert.Equal(t, 4, second.Summary.DuplicateRows)

	histories, historyTotal, err := historyRepo.FindAll(ctx, bulk.ImportHistoryFilter{AccountID: &acc.ID}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), historyTotal)
	for _, h := range histories {
		assert.Equal(t, bulk.ImportStatusCompleted, h.Status)
	}

	// Bulk-transition the imported orders to processing.
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	result, err := statusService.Apply(ctx, "ops@example.com", ids, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, len(ids), result.SucceededCount())
	assert.Empty(t, result.Failed)
	require.NotEqual(t, uuid.Nil, result.AuditID)

	audit, err := statusService.GetAudit(ctx, result.AuditID)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", audit.Actor)
	assert.Equal(t, len(ids), audit.RequestedCount)
	assert.ElementsMatch(t, ids, audit.SucceededIDs)

	for _, id := range ids {
		status, err := orderRepo.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, status)
	}
}
