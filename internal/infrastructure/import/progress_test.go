package csvimport

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerBeginAndGet(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	accountID := uuid.New()
	id := tracker.Begin(accountID, KindOrder, "orders.csv", 2048)

	session, ok := tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, accountID, session.AccountID)
	assert.Equal(t, KindOrder, session.Kind)
	assert.Equal(t, "orders.csv", session.FileName)
	assert.Equal(t, int64(2048), session.FileSize)
	assert.Equal(t, StateReceiving, session.State)
	assert.Equal(t, 0, session.ProgressPercent)
	assert.Nil(t, session.CompletedAt)
}

func TestTrackerGetMiss(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	_, ok := tracker.Get(uuid.New())
	assert.False(t, ok)
}

func TestTrackerUpdate(t *testing.T) {
	t.Run("advances state and percent", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Update(id, StateParsing, 20, "parsing")
		tracker.Update(id, StateImporting, 60, "importing")

		session, ok := tracker.Get(id)
		require.True(t, ok)
		assert.Equal(t, StateImporting, session.State)
		assert.Equal(t, 60, session.ProgressPercent)
		assert.Equal(t, "importing", session.Message)
	})

	t.Run("percent never goes backwards", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Update(id, StateImporting, 70, "")
		tracker.Update(id, StateImporting, 40, "")

		session, _ := tracker.Get(id)
		assert.Equal(t, 70, session.ProgressPercent)
	})

	t.Run("percent capped at 100", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Update(id, StateImporting, 150, "")

		session, _ := tracker.Get(id)
		assert.Equal(t, 100, session.ProgressPercent)
	})

	t.Run("unknown session is a no-op", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		tracker.Update(uuid.New(), StateParsing, 10, "")
	})
}

func TestTrackerComplete(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	id := tracker.Begin(uuid.New(), KindListing, "listings.csv", 10)
	tracker.Update(id, StateImporting, 80, "")
	tracker.Complete(id, ImportSummary{
		TotalRows:     10,
		ImportedRows:  7,
		DuplicateRows: 2,
		SkippedRows:   1,
		ErrorCount:    1,
	})

	session, ok := tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateCompleted, session.State)
	assert.Equal(t, 100, session.ProgressPercent)
	require.NotNil(t, session.Summary)
	assert.Equal(t, 7, session.Summary.ImportedRows)
	assert.Equal(t, 2, session.Summary.DuplicateRows)
	assert.Equal(t, 1, session.Summary.SkippedRows)
	require.NotNil(t, session.CompletedAt)
}

func TestTrackerFail(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
	tracker.Fail(id, "missing required columns: Item Id")

	session, ok := tracker.Get(id)
	require.True(t, ok)
	assert.Equal(t, StateFailed, session.State)
	assert.Equal(t, "missing required columns: Item Id", session.Message)
	require.NotNil(t, session.CompletedAt)
}

func TestTrackerTerminalStatesAreImmutable(t *testing.T) {
	t.Run("update after complete is dropped", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Complete(id, ImportSummary{TotalRows: 1, ImportedRows: 1})
		tracker.Update(id, StateImporting, 50, "late worker update")

		session, _ := tracker.Get(id)
		assert.Equal(t, StateCompleted, session.State)
		assert.Equal(t, 100, session.ProgressPercent)
		assert.Empty(t, session.Message)
	})

	t.Run("fail after complete is dropped", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Complete(id, ImportSummary{TotalRows: 1, ImportedRows: 1})
		tracker.Fail(id, "too late")

		session, _ := tracker.Get(id)
		assert.Equal(t, StateCompleted, session.State)
		assert.NotNil(t, session.Summary)
	})

	t.Run("complete after fail is dropped", func(t *testing.T) {
		tracker := NewTracker(time.Hour)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		tracker.Fail(id, "parse error")
		tracker.Complete(id, ImportSummary{TotalRows: 1, ImportedRows: 1})

		session, _ := tracker.Get(id)
		assert.Equal(t, StateFailed, session.State)
		assert.Nil(t, session.Summary)
	})
}

func TestTrackerExpiry(t *testing.T) {
	t.Run("expired session reads as missing", func(t *testing.T) {
		tracker := NewTracker(10 * time.Millisecond)
		defer tracker.Stop()

		id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
		time.Sleep(20 * time.Millisecond)

		_, ok := tracker.Get(id)
		assert.False(t, ok)
	})

	t.Run("sweep removes expired sessions", func(t *testing.T) {
		tracker := NewTracker(10 * time.Millisecond)
		defer tracker.Stop()

		tracker.Begin(uuid.New(), KindOrder, "a.csv", 1)
		tracker.Begin(uuid.New(), KindOrder, "b.csv", 1)
		time.Sleep(20 * time.Millisecond)
		tracker.Sweep()

		tracker.mu.RLock()
		defer tracker.mu.RUnlock()
		assert.Empty(t, tracker.sessions)
	})
}

func TestTrackerGetReturnsSnapshot(t *testing.T) {
	tracker := NewTracker(time.Hour)
	defer tracker.Stop()

	id := tracker.Begin(uuid.New(), KindOrder, "orders.csv", 10)
	snapshot, ok := tracker.Get(id)
	require.True(t, ok)

	snapshot.State = StateFailed
	snapshot.ProgressPercent = 99

	session, _ := tracker.Get(id)
	assert.Equal(t, StateReceiving, session.State)
	assert.Equal(t, 0, session.ProgressPercent)
}
