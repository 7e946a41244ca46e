package state

import (
	"time"

	"github.com/Freeeeeet/agenda/internal/service"
)

// UserState представляет текущее состояние чата в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	StateAwaitingToken    UserState = "awaiting_token"
	StateAwaitingCompany  UserState = "awaiting_company"
	StateAwaitingDuration UserState = "awaiting_duration"
	StateAwaitingBlackout UserState = "awaiting_blackout"
)

// DefaultServiceDuration - длительность услуги, пока пользователь не выбрал другую
const DefaultServiceDuration = 30

// ChatData хранит данные чата в памяти. Токен нигде не сохраняется.
type ChatData struct {
	State           UserState
	Token           string
	CompanyID       int64
	ServiceDuration int
	Session         *service.Session
	LastSeen        time.Time
}

// Profile - копия настроек чата без сессии
type Profile struct {
	Token           string
	CompanyID       int64
	ServiceDuration int
}
