package common

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoCompany     = errors.New("company not selected")
	ErrPastDate      = errors.New("date is in the past")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var (
		statusErr   *backend.StatusError
		scheduleErr *availability.InvalidScheduleError
	)

	switch {
	case errors.Is(err, backend.ErrNoToken):
		return "🔑 Você precisa informar o token de acesso. Use /token"
	case errors.As(err, &statusErr) && (statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden):
		return "🔑 Token inválido ou expirado. Envie um novo com /token"
	case backend.IsNotFound(err):
		return "❌ Registro não encontrado"
	case backend.IsTransient(err):
		return "⚠️ O servidor não respondeu. Tente novamente em instantes"
	case errors.As(err, &scheduleErr):
		return "⚠️ A grade cadastrada para este dia é inválida. Revise com /grade"
	case errors.Is(err, service.ErrDuplicateWeekday):
		return "❌ Já existe uma grade para este dia da semana"
	case errors.Is(err, service.ErrRuleNotFound):
		return "❌ Não há grade cadastrada para este dia"
	case errors.Is(err, service.ErrInvalidBlackout):
		return "❌ Bloqueio inválido: o início deve ser antes do fim"
	case errors.Is(err, ErrNoCompany):
		return "🏢 Escolha a empresa primeiro com /empresa"
	case errors.Is(err, ErrPastDate):
		return "📅 Não é possível escolher uma data no passado"
	case errors.Is(err, ErrNoMessage):
		return "❌ Erro ao processar a mensagem"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Formato de dados inválido"
	default:
		return "❌ Ocorreu um erro"
	}
}
