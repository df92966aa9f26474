package csvimport

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// UploadState represents the lifecycle state of an upload session
type UploadState string

const (
	StateReceiving UploadState = "receiving"
	StateParsing   UploadState = "parsing"
	StateImporting UploadState = "importing"
	StateCompleted UploadState = "completed"
	StateFailed    UploadState = "failed"
)

// IsTerminal reports whether the state accepts no further updates
func (s UploadState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// ImportSummary is the final breakdown of an import run. Every data row
// lands in exactly one of the imported, duplicate or skipped buckets.
type ImportSummary struct {
	TotalRows     int        `json:"total_rows"`
	ImportedRows  int        `json:"imported_rows"`
	DuplicateRows int        `json:"duplicate_rows"`
	SkippedRows   int        `json:"skipped_rows"`
	Errors        []RowError `json:"errors,omitempty"`
	ErrorCount    int        `json:"error_count"`
}

// UploadSession tracks the progress of one file upload
type UploadSession struct {
	ID              uuid.UUID      `json:"id"`
	AccountID       uuid.UUID      `json:"account_id"`
	Kind            RecordKind     `json:"kind"`
	FileName        string         `json:"file_name"`
	FileSize        int64          `json:"file_size"`
	State           UploadState    `json:"state"`
	ProgressPercent int            `json:"progress_percent"`
	Message         string         `json:"message,omitempty"`
	Summary         *ImportSummary `json:"summary,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

// Tracker is an in-memory store of upload sessions keyed by upload ID.
// Sessions expire after a TTL and are swept by a background goroutine.
// Progress is monotonic and terminal sessions are immutable: a late update
// against a completed or failed session is dropped without error.
type Tracker struct {
	sessions map[uuid.UUID]*UploadSession
	mu       sync.RWMutex
	ttl      time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTracker creates a tracker whose sessions live for ttl after creation
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	t := &Tracker{
		sessions: make(map[uuid.UUID]*UploadSession),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go t.sweepLoop()
	return t
}

func (t *Tracker) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.Sweep()
		case <-t.stopCh:
			return
		}
	}
}

// Stop stops the background sweep goroutine
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Begin registers a new upload session and returns its ID
func (t *Tracker) Begin(accountID uuid.UUID, kind RecordKind, fileName string, fileSize int64) uuid.UUID {
	now := time.Now()
	session := &UploadSession{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      kind,
		FileName:  fileName,
		FileSize:  fileSize,
		State:     StateReceiving,
		StartedAt: now,
		UpdatedAt: now,
	}

	t.mu.Lock()
	t.sessions[session.ID] = session
	t.mu.Unlock()
	return session.ID
}

// Update moves a session to a non-terminal state and advances its progress.
// Percent never goes backwards. Updates against unknown or terminal sessions
// are silently dropped.
func (t *Tracker) Update(id uuid.UUID, state UploadState, percent int, message string) {
	if state.IsTerminal() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok || session.State.IsTerminal() {
		return
	}
	session.State = state
	if percent > session.ProgressPercent {
		if percent > 100 {
			percent = 100
		}
		session.ProgressPercent = percent
	}
	session.Message = message
	session.UpdatedAt = time.Now()
}

// Complete finishes a session successfully with its final summary
func (t *Tracker) Complete(id uuid.UUID, summary ImportSummary) {
	t.finish(id, StateCompleted, "", &summary)
}

// Fail finishes a session with a failure message
func (t *Tracker) Fail(id uuid.UUID, message string) {
	t.finish(id, StateFailed, message, nil)
}

func (t *Tracker) finish(id uuid.UUID, state UploadState, message string, summary *ImportSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.sessions[id]
	if !ok || session.State.IsTerminal() {
		return
	}
	now := time.Now()
	session.State = state
	session.ProgressPercent = 100
	session.Message = message
	session.Summary = summary
	session.UpdatedAt = now
	session.CompletedAt = &now
}

// Get returns a snapshot of a session. The second return is false when the
// session does not exist or has expired; callers treat that as a plain
// not-found, since expiry of finished uploads is routine.
func (t *Tracker) Get(id uuid.UUID) (UploadSession, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	session, ok := t.sessions[id]
	if !ok || time.Since(session.StartedAt) > t.ttl {
		return UploadSession{}, false
	}
	return *session, true
}

// Sweep removes expired sessions
func (t *Tracker) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, session := range t.sessions {
		if time.Since(session.StartedAt) > t.ttl {
			delete(t.sessions, id)
		}
	}
}
