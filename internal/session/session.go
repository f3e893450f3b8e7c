package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mpetrov/flightdesk/internal/domain"
)

// Session holds the per-client mutable state: at most one logged-in
// identity and the result set of the most recent search. It is the only
// shared mutable state in the process, so all access goes through the
// mutex.
type Session struct {
	id string

	mu         sync.Mutex
	username   string
	lastSearch []domain.Itinerary
}

func (s *Session) ID() string {
	return s.id
}

// Login binds an identity to the session. A session already bound to a
// user rejects a second login.
func (s *Session) Login(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.username != "" {
		return domain.ErrAlreadyLoggedIn
	}
	s.username = username
	return nil
}

// Logout clears the identity and the cached search results.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.lastSearch = nil
}

// User returns the logged-in username, if any.
func (s *Session) User() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.username != ""
}

// SetSearchResults replaces the cached result set wholesale. Indices
// handed out by a previous search are invalid from this point on.
func (s *Session) SetSearchResults(results []domain.Itinerary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSearch = results
}

// ItineraryAt resolves an index from the most recent search. Without a
// prior search, or out of bounds, the index does not name an itinerary.
func (s *Session) ItineraryAt(index int) (domain.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.lastSearch) {
		return domain.Itinerary{}, domain.ErrNoSuchItinerary
	}
	return s.lastSearch[index], nil
}

// Manager tracks live sessions by token.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session under a fresh token.
func (m *Manager) Create() *Session {
	s := &Session{id: uuid.NewString()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
	return s
}

// Get looks up a session by token.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete tears a session down.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
