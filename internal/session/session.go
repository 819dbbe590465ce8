package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/draft"
)

// Session is one customer's browsing session: its own cart and order draft.
type Session struct {
	ID    string
	Cart  *cart.Cart
	Draft *draft.Store

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is the time of the most recent lookup.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// TableRepository persists the table number of a session across restarts.
type TableRepository interface {
	GetTable(ctx context.Context, sessionID string) (string, error)
	PutTable(ctx context.Context, sessionID, table string) error
}

// Manager owns the sessions of this process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tables   TableRepository // optional
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewManager returns an empty Manager. tables may be nil, in which case
// table numbers live only in memory.
func NewManager(tables TableRepository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: map[string]*Session{},
		tables:   tables,
		logger:   logger.Named("session"),
		nowFunc:  time.Now,
	}
}

// NewID mints a session id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session with id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	s := m.sessions[id]
	m.mu.Unlock()
	if s != nil {
		s.touch(m.nowFunc())
	}
	return s
}

// GetOrCreate returns the session with id, creating an empty one if needed.
// The boolean reports whether it was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	now := m.nowFunc()
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id, Cart: cart.New(), Draft: draft.NewStore()}
		m.sessions[id] = s
	}
	m.mu.Unlock()
	s.touch(now)
	return s, !ok
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.nowFunc().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// ApplyEntry handles a customer arriving at the storefront, usually through a
// QR code carrying the consumption method and table. A set method replaces
// the draft's method. The table from the URL wins over the one remembered for
// the session; whichever is used is remembered again.
func (m *Manager) ApplyEntry(ctx context.Context, s *Session, method draft.ConsumptionMethod, tableFromURL string) (draft.Draft, error) {
	if method.IsValid() {
		s.Draft.SetConsumptionMethod(method)
	}

	table := tableFromURL
	if table == "" {
		table = m.rememberedTable(ctx, s)
	}
	if table == "" {
		return s.Draft.Current(), nil
	}

	s.Draft.SetTableNumber(table)
	if m.tables != nil {
		if err := m.tables.PutTable(ctx, s.ID, table); err != nil {
			return s.Draft.Current(), err
		}
	}
	return s.Draft.Current(), nil
}

func (m *Manager) rememberedTable(ctx context.Context, s *Session) string {
	if current := s.Draft.Current().TableNumber; current != "" {
		return current
	}
	if m.tables == nil {
		return ""
	}
	table, err := m.tables.GetTable(ctx, s.ID)
	if err != nil {
		m.logger.Warn("read remembered table failed", zap.String("session_id", s.ID), zap.Error(err))
		return ""
	}
	return table
}
