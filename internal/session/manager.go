package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mtbf-analyzer/backend/internal/models"
)

// DefaultMaxSessions limits stored analyses to bound memory use.
const DefaultMaxSessions = 50

// SessionMaxAge is how long to keep an analysis after its last access.
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Manager keeps finished analyses in memory so follow-up queries can refer
// to them by ID.
type Manager struct {
	sessions    map[string]*SessionState
	mu          sync.RWMutex
	maxSessions int
	now         func() time.Time
}

// SessionState holds the session metadata, the scanned tables and the result.
type SessionState struct {
	Session      *models.AnalysisSession
	Result       *models.AnalysisResult // nil when the scan found no work orders
	Tables       []models.RawTable
	LastAccessed time.Time // Last time the session was accessed (for keep-alive)
}

// NewManager creates a session manager holding at most maxSessions analyses.
// A non-positive limit uses DefaultMaxSessions.
func NewManager(maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*SessionState),
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Create stores a finished analysis and returns its session record.
// The oldest sessions are evicted when the manager is full.
func (m *Manager) Create(source string, tables []models.RawTable, result *models.AnalysisResult, elapsed time.Duration) *models.AnalysisSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupOldSessionsIfNeeded()

	id := uuid.New().String()
	now := m.now()

	session := models.NewAnalysisSession(id, source, len(tables), result)
	session.ProcessingTimeMs = elapsed.Milliseconds()
	session.CreatedAt = now.UnixMilli()

	m.sessions[id] = &SessionState{
		Session:      session,
		Result:       result,
		Tables:       tables,
		LastAccessed: now,
	}

	slog.Info("analysis session created",
		"session", shortID(id),
		"status", session.Status,
		"workOrders", session.WorkOrderCount,
		"tables", session.TableCount)

	return session
}

// cleanupOldSessionsIfNeeded evicts the least recently used sessions so a
// new one fits. The caller holds the write lock.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	for len(m.sessions) >= m.maxSessions {
		var oldestID string
		var oldest time.Time
		for id, state := range m.sessions {
			if oldestID == "" || state.LastAccessed.Before(oldest) {
				oldestID = id
				oldest = state.LastAccessed
			}
		}
		delete(m.sessions, oldestID)
		slog.Debug("evicted session to free memory", "session", shortID(oldestID))
	}
}

// CleanupOldSessions removes sessions not accessed within maxAge,
// but keeps sessions that have been accessed within SessionKeepAliveWindow.
// It returns the number of sessions removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			slog.Info("cleaned up aged session",
				"session", shortID(id),
				"idle", now.Sub(state.LastAccessed).Round(time.Second))
		}
	}
	return removed
}

// Get returns a session record by ID.
func (m *Manager) Get(id string) (*models.AnalysisSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// GetResult returns the analysis result of a session and marks it as used.
// The result is nil for a scan that found no work orders.
func (m *Manager) GetResult(id string) (*models.AnalysisResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = m.now()
	return state.Result, true
}

// GetTables returns the tables a session was scanned from.
func (m *Manager) GetTables(id string) ([]models.RawTable, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccessed = m.now()
	return state.Tables, true
}

// Touch updates the LastAccessed timestamp for a session.
// This should be called whenever a session is actively being used
// to prevent it from being cleaned up.
func (m *Manager) Touch(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = m.now()
	return true
}

// Delete removes a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	slog.Debug("analysis session deleted", "session", shortID(id))
	return true
}

// Count returns the number of stored sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
