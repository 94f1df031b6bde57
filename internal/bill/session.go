package bill

import (
	"encoding/json"
	"fmt"
	"sync"
)

const sessionUserKey = "user"

// SessionStore is the browser-local key-value state holding the logged-in
// user's identity. Implementations must be safe for concurrent reads.
type SessionStore interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// User is the session-stored identity. Type gates workflow visibility
// ("Employee"), enforced by the embedding router, not here.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// CurrentUser reads and decodes the "user" session entry. A missing or
// malformed entry is an error; callers in this package let it propagate.
func CurrentUser(sess SessionStore) (User, error) {
	raw, ok := sess.GetItem(sessionUserKey)
	if !ok {
		return User{}, fmt.Errorf("no %q entry in session", sessionUserKey)
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("decoding session user: %w", err)
	}
	return u, nil
}

// SetCurrentUser stores a user identity in the session.
func SetCurrentUser(sess SessionStore, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}
	sess.SetItem(sessionUserKey, string(data))
	return nil
}

// MemorySession implements SessionStore with an in-process map.
type MemorySession struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{items: make(map[string]string)}
}

func (m *MemorySession) GetItem(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemorySession) SetItem(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemorySession) RemoveItem(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}
