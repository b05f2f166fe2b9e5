package prefs

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]User
	active   map[string]bool
	members  map[string][]string          // outlet id -> user ids
	settings map[string]map[string]Setting // user id -> type -> setting
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]User),
		active:   make(map[string]bool),
		members:  make(map[string][]string),
		settings: make(map[string]map[string]Setting),
	}
}

// AddUser stores a user. Users are active unless deactivated.
func (m *MemoryStore) AddUser(u User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.active[u.ID] = true
}

// Deactivate marks a user inactive; inactive users never resolve.
func (m *MemoryStore) Deactivate(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[userID] = false
}

// AddOutletMember adds a user to an outlet's member list.
func (m *MemoryStore) AddOutletMember(outletID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.members[outletID], userID) {
		m.members[outletID] = append(m.members[outletID], userID)
	}
}

// RemoveOutletMember removes a user from an outlet's member list.
func (m *MemoryStore) RemoveOutletMember(outletID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[outletID] = slices.DeleteFunc(m.members[outletID], func(id string) bool {
		return id == userID
	})
}

// SetSetting stores a user's opt-in row for one notification type.
func (m *MemoryStore) SetSetting(s Setting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings[s.UserID] == nil {
		m.settings[s.UserID] = make(map[string]Setting)
	}
	m.settings[s.UserID][s.Type] = s
}

func (m *MemoryStore) FetchActiveUsersWithSettings(ctx context.Context, userIDs, outletIDs []string, notifType string) ([]UserWithSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	candidates := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			candidates = append(candidates, id)
		}
	}
	for _, outletID := range outletIDs {
		for _, id := range m.members[outletID] {
			if !seen[id] {
				seen[id] = true
				candidates = append(candidates, id)
			}
		}
	}

	var result []UserWithSetting
	for _, id := range candidates {
		user, ok := m.users[id]
		if !ok || !m.active[id] {
			continue
		}

		row := UserWithSetting{User: user}
		if s, ok := m.settings[id][notifType]; ok {
			setting := s
			row.Setting = &setting
		}
		result = append(result, row)
	}
	return result, nil
}
