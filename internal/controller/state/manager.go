package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/agenda/internal/service"
)

// SessionFactory создаёт сессию экрана записи
type SessionFactory func(companyID int64, serviceDuration int) *service.Session

// Manager управляет состояниями чатов
type Manager struct {
	mu      sync.RWMutex
	chats   map[int64]*ChatData // chatID -> ChatData
	factory SessionFactory
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(factory SessionFactory) *Manager {
	return &Manager{
		chats:   make(map[int64]*ChatData),
		factory: factory,
		now:     time.Now,
	}
}

// chat возвращает запись чата, создавая её при необходимости. Вызывать под mu.Lock.
func (sm *Manager) chat(chatID int64) *ChatData {
	data, exists := sm.chats[chatID]
	if !exists {
		data = &ChatData{ServiceDuration: DefaultServiceDuration}
		sm.chats[chatID] = data
	}
	data.LastSeen = sm.now()
	return data
}

// GetState получает текущее состояние чата
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.chats[chatID]; exists {
		return data.State
	}
	return StateNone
}

// SetState устанавливает состояние чата
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.chat(chatID).State = state
}

// ClearState сбрасывает диалог, настройки чата сохраняются
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data, exists := sm.chats[chatID]; exists {
		data.State = StateNone
	}
}

// SetToken запоминает токен чата
func (sm *Manager) SetToken(chatID int64, token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.chat(chatID).Token = token
}

// SetCompany выбирает компанию; текущая сессия закрывается
func (sm *Manager) SetCompany(chatID, companyID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data := sm.chat(chatID)
	if data.CompanyID != companyID {
		closeSession(data)
	}
	data.CompanyID = companyID
}

// SetServiceDuration меняет длительность услуги; текущая сессия закрывается
func (sm *Manager) SetServiceDuration(chatID int64, minutes int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data := sm.chat(chatID)
	if data.ServiceDuration != minutes {
		closeSession(data)
	}
	data.ServiceDuration = minutes
}

// Profile возвращает копию настроек чата
func (sm *Manager) Profile(chatID int64) Profile {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, exists := sm.chats[chatID]
	if !exists {
		return Profile{ServiceDuration: DefaultServiceDuration}
	}
	return Profile{
		Token:           data.Token,
		CompanyID:       data.CompanyID,
		ServiceDuration: data.ServiceDuration,
	}
}

// Session возвращает сессию экрана записи чата, создавая её при необходимости.
// false, если компания ещё не выбрана.
func (sm *Manager) Session(chatID int64) (*service.Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data := sm.chat(chatID)
	if data.CompanyID == 0 {
		return nil, false
	}
	if data.Session == nil {
		data.Session = sm.factory(data.CompanyID, data.ServiceDuration)
	}
	return data.Session, true
}

// Forget удаляет все данные чата
func (sm *Manager) Forget(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if data, exists := sm.chats[chatID]; exists {
		closeSession(data)
		delete(sm.chats, chatID)
	}
}

// Sweep удаляет чаты, неактивные дольше idle, и возвращает их число
func (sm *Manager) Sweep(idle time.Duration, now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for chatID, data := range sm.chats {
		if now.Sub(data.LastSeen) < idle {
			continue
		}
		closeSession(data)
		delete(sm.chats, chatID)
		removed++
	}
	return removed
}

// Len возвращает число чатов в памяти
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.chats)
}

func closeSession(data *ChatData) {
	if data.Session != nil {
		data.Session.Close()
		data.Session = nil
	}
}
