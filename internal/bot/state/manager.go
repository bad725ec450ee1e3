package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/vladimiradmaev/spendeats/internal/domain"
)

// UserState is everything the bot remembers about a user between messages.
type UserState struct {
	Conversation domain.Conversation `json:"conversation"`
	Session      *domain.Session     `json:"session"`
}

// StateManager stores per-user chat state.
type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*UserState, error)
	SetUserState(ctx context.Context, userID int64, state *UserState) error
	ClearUserState(ctx context.Context, userID int64) error
}

// NewUserState returns the state of a user the bot has not seen yet.
func NewUserState(userID int64) *UserState {
	return &UserState{Session: domain.NewSession(strconv.FormatInt(userID, 10))}
}

func encodeState(state *UserState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user state: %w", err)
	}
	return data, nil
}

// decodeState falls back to a fresh state when data is unreadable.
func decodeState(userID int64, data []byte) *UserState {
	st := &UserState{}
	if err := json.Unmarshal(data, st); err != nil || st.Session == nil {
		return NewUserState(userID)
	}
	if st.Session.Cart == nil {
		st.Session.Cart = []domain.CartLine{}
	}
	return st
}

// Manager keeps user states in process memory.
type Manager struct {
	states map[int64][]byte
	mu     sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{states: make(map[int64][]byte)}
}

// GetUserState returns a copy; changes are kept only after SetUserState.
func (m *Manager) GetUserState(_ context.Context, userID int64) (*UserState, error) {
	m.mu.RLock()
	data, ok := m.states[userID]
	m.mu.RUnlock()

	if !ok {
		return NewUserState(userID), nil
	}
	return decodeState(userID, data), nil
}

func (m *Manager) SetUserState(_ context.Context, userID int64, state *UserState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = data
	return nil
}

func (m *Manager) ClearUserState(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}
