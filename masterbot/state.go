package masterbot

import "sync"

// DialogState is the step of a multi-message conversation.
type DialogState string

const (
	StateNone          DialogState = ""
	StateAwaitWeekday  DialogState = "await_weekday"
	StateAwaitWeekSlot DialogState = "await_week_slots"
)

type chatData struct {
	State DialogState
	Data  map[string]string
}

// Manager keeps the dialog state of each chat.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*chatData // chatID -> dialog
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]*chatData)}
}

func (m *Manager) GetState(chatID int64) DialogState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.states[chatID]; ok {
		return d.State
	}
	return StateNone
}

func (m *Manager) SetState(chatID int64, state DialogState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == StateNone {
		delete(m.states, chatID)
		return
	}
	d, ok := m.states[chatID]
	if !ok {
		d = &chatData{Data: make(map[string]string)}
		m.states[chatID] = d
	}
	d.State = state
}

func (m *Manager) GetData(chatID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.states[chatID]; ok {
		v, ok := d.Data[key]
		return v, ok
	}
	return "", false
}

func (m *Manager) SetData(chatID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.states[chatID]
	if !ok {
		d = &chatData{Data: make(map[string]string)}
		m.states[chatID] = d
	}
	d.Data[key] = value
}

func (m *Manager) ClearState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}
