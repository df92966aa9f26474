package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.UUID{byte(i + 1)}
	}
	return out
}

func TestNewSelectionManager(t *testing.T) {
	t.Run("rejects non-positive cap", func(t *testing.T) {
		_, err := NewSelectionManager(0, nil)
		assert.Error(t, err)
	})
}

func TestSelectionToggle(t *testing.T) {
	candidates := ids(3)
	m, err := NewSelectionManager(2, candidates)
	require.NoError(t, err)

	t.Run("adds and removes", func(t *testing.T) {
		assert.Nil(t, m.Toggle(candidates[0]))
		assert.True(t, m.IsSelected(candidates[0]))
		assert.Nil(t, m.Toggle(candidates[0]))
		assert.False(t, m.IsSelected(candidates[0]))
	})

	t.Run("signals limit when at cap", func(t *testing.T) {
		m.Clear()
		require.Nil(t, m.Toggle(candidates[0]))
		require.Nil(t, m.Toggle(candidates[1]))

		signal := m.Toggle(candidates[2])
		require.NotNil(t, signal)
		assert.Equal(t, 2, signal.Max)
		assert.Equal(t, 2, m.Size())
	})

	t.Run("removing while at cap still works", func(t *testing.T) {
		assert.Nil(t, m.Toggle(candidates[1]))
		assert.Equal(t, 1, m.Size())
	})

	t.Run("non-candidate id is ignored", func(t *testing.T) {
		m.Clear()
		assert.Nil(t, m.Toggle(uuid.New()))
		assert.Equal(t, 0, m.Size())
	})
}

func TestSelectionSelectAll(t *testing.T) {
	t.Run("cap 2 over 3 candidates selects first two and signals once", func(t *testing.T) {
		candidates := ids(3)
		m, err := NewSelectionManager(2, candidates)
		require.NoError(t, err)

		signal := m.SelectAll()
		require.NotNil(t, signal)
		assert.Equal(t, 2, signal.Max)
		assert.Equal(t, []uuid.UUID{candidates[0], candidates[1]}, m.Selected())
	})

	t.Run("under cap selects everything without signal", func(t *testing.T) {
		candidates := ids(3)
		m, err := NewSelectionManager(10, candidates)
		require.NoError(t, err)

		assert.Nil(t, m.SelectAll())
		assert.Equal(t, 3, m.Size())
	})
}

func TestSelectionSelectWhere(t *testing.T) {
	candidates := ids(5)
	m, err := NewSelectionManager(2, candidates)
	require.NoError(t, err)

	// Select ids with an odd first byte: 1, 3, 5. Overflow at the third.
	signal := m.SelectWhere(func(id uuid.UUID) bool { return id[0]%2 == 1 })
	require.NotNil(t, signal)
	assert.Equal(t, 2, signal.Max)
	assert.Equal(t, []uuid.UUID{candidates[0], candidates[2]}, m.Selected())
}

func TestSelectionSetCandidates(t *testing.T) {
	candidates := ids(4)
	m, err := NewSelectionManager(10, candidates)
	require.NoError(t, err)
	require.Nil(t, m.SelectAll())

	// Drop two candidates from view; their selection is pruned silently.
	m.SetCandidates(candidates[:2])
	assert.Equal(t, []uuid.UUID{candidates[0], candidates[1]}, m.Selected())
	assert.False(t, m.IsSelected(candidates[3]))
}

func TestSelectionClear(t *testing.T) {
	candidates := ids(3)
	m, err := NewSelectionManager(5, candidates)
	require.NoError(t, err)
	require.Nil(t, m.SelectAll())

	m.Clear()
	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Selected())
}
