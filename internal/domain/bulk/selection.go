package bulk

import (
	"github.com/google/uuid"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// LimitSignal is reported by selection operations that ran into the cap.
// It carries the configured maximum so the caller can surface it.
type LimitSignal struct {
	Max int
}

// SelectionManager maintains a capped set of selected order ids over a
// candidate list. The selection never exceeds the cap and never contains ids
// outside the current candidate list.
type SelectionManager struct {
	max        int
	candidates []uuid.UUID
	selected   map[uuid.UUID]struct{}
}

// NewSelectionManager creates a selection manager with the given cap
func NewSelectionManager(max int, candidates []uuid.UUID) (*SelectionManager, error) {
	if max <= 0 {
		return nil, shared.NewDomainError("INVALID_SELECTION_LIMIT", "Selection limit must be positive")
	}
	m := &SelectionManager{
		max:      max,
		selected: make(map[uuid.UUID]struct{}),
	}
	m.SetCandidates(candidates)
	return m, nil
}

// Max returns the configured cap
func (m *SelectionManager) Max() int {
	return m.max
}

// Size returns the number of selected ids
func (m *SelectionManager) Size() int {
	return len(m.selected)
}

// IsSelected reports whether the id is currently selected
func (m *SelectionManager) IsSelected(id uuid.UUID) bool {
	_, ok := m.selected[id]
	return ok
}

// Selected returns the selected ids in candidate list order
func (m *SelectionManager) Selected() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.selected))
	for _, id := range m.candidates {
		if _, ok := m.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SetCandidates replaces the candidate list. The selection is pruned to the
// intersection with the new list; stale ids are dropped silently.
func (m *SelectionManager) SetCandidates(candidates []uuid.UUID) {
	m.candidates = make([]uuid.UUID, len(candidates))
	copy(m.candidates, candidates)

	present := make(map[uuid.UUID]struct{}, len(candidates))
	for _, id := range candidates {
		present[id] = struct{}{}
	}
	for id := range m.selected {
		if _, ok := present[id]; !ok {
			delete(m.selected, id)
		}
	}
}

// Toggle adds the id if absent and under the cap, removes it if present.
// Toggling an absent id while at the cap is a no-op that signals the limit.
func (m *SelectionManager) Toggle(id uuid.UUID) *LimitSignal {
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		return nil
	}
	if !m.isCandidate(id) {
		return nil
	}
	if len(m.selected) >= m.max {
		return &LimitSignal{Max: m.max}
	}
	m.selected[id] = struct{}{}
	return nil
}

// SelectAll selects candidates in list order up to the cap. When the
// candidate count exceeds the cap only the first max are selected and the
// limit is signalled once.
func (m *SelectionManager) SelectAll() *LimitSignal {
	return m.SelectWhere(func(uuid.UUID) bool { return true })
}

// SelectWhere selects every candidate satisfying the predicate up to the
// cap, with the same overflow behavior as SelectAll.
func (m *SelectionManager) SelectWhere(predicate func(uuid.UUID) bool) *LimitSignal {
	var limited bool
	for _, id := range m.candidates {
		if !predicate(id) {
			continue
		}
		if _, ok := m.selected[id]; ok {
			continue
		}
		if len(m.selected) >= m.max {
			limited = true
			break
		}
		m.selected[id] = struct{}{}
	}
	if limited {
		return &LimitSignal{Max: m.max}
	}
	return nil
}

// Clear empties the selection unconditionally
func (m *SelectionManager) Clear() {
	m.selected = make(map[uuid.UUID]struct{})
}

func (m *SelectionManager) isCandidate(id uuid.UUID) bool {
	for _, c := range m.candidates {
		if c == id {
			return true
		}
	}
	return false
}
