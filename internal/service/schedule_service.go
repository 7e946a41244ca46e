package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/model"
	"go.uber.org/zap"
)

var (
	ErrDuplicateWeekday = errors.New("weekday already has a rule")
	ErrRuleNotFound     = errors.New("schedule rule not found")
	ErrInvalidBlackout  = errors.New("invalid blackout window")
)

// ScheduleBackend - операции настройки расписания компании
type ScheduleBackend interface {
	ListRules(ctx context.Context, companyID int64) ([]model.WeeklyScheduleRule, error)
	CreateRule(ctx context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error)
	UpdateRule(ctx context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error)
	DeleteRule(ctx context.Context, ruleID int64) error

	ListBlackouts(ctx context.Context, companyID int64) ([]model.BlackoutWindow, error)
	CreateBlackout(ctx context.Context, window *model.BlackoutWindow) (*model.BlackoutWindow, error)
	DeleteBlackout(ctx context.Context, windowID int64) error

	ListAppointments(ctx context.Context, companyID int64, date civil.Date) ([]model.Appointment, error)
}

// ScheduleService - настройка недельной сетки и блокировок компанией
type ScheduleService struct {
	backend ScheduleBackend
	logger  *zap.Logger
}

func NewScheduleService(backend ScheduleBackend, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		backend: backend,
		logger:  logger,
	}
}

// ListRules возвращает правила, упорядоченные по дню недели
func (s *ScheduleService) ListRules(ctx context.Context, companyID int64) ([]model.WeeklyScheduleRule, error) {
	rules, err := s.backend.ListRules(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Weekday < rules[j].Weekday
	})
	return rules, nil
}

// SaveRule создаёт или обновляет правило дня недели.
// Без ID правило заменяет существующее правило того же дня.
func (s *ScheduleService) SaveRule(ctx context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error) {
	if err := availability.ValidateRule(rule); err != nil {
		return nil, err
	}

	toSave := *rule
	rules, err := s.backend.ListRules(ctx, toSave.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	for _, existing := range rules {
		if existing.Weekday != toSave.Weekday {
			continue
		}
		if toSave.ID == 0 {
			toSave.ID = existing.ID
			break
		}
		if existing.ID != toSave.ID {
			return nil, ErrDuplicateWeekday
		}
	}

	if toSave.ID == 0 {
		created, err := s.backend.CreateRule(ctx, &toSave)
		if err != nil {
			return nil, fmt.Errorf("create rule: %w", err)
		}
		s.logger.Info("Schedule rule created",
			zap.Int64("company_id", toSave.CompanyID),
			zap.Int64("rule_id", created.ID),
			zap.Int("weekday", created.Weekday))
		return created, nil
	}

	updated, err := s.backend.UpdateRule(ctx, &toSave)
	if err != nil {
		return nil, fmt.Errorf("update rule: %w", err)
	}
	s.logger.Info("Schedule rule updated",
		zap.Int64("company_id", toSave.CompanyID),
		zap.Int64("rule_id", updated.ID),
		zap.Int("weekday", updated.Weekday))
	return updated, nil
}

// DeleteRuleForWeekday удаляет правило дня недели; день становится выходным
func (s *ScheduleService) DeleteRuleForWeekday(ctx context.Context, companyID int64, weekday int) error {
	rules, err := s.backend.ListRules(ctx, companyID)
	if err != nil {
		return fmt.Errorf("list rules: %w", err)
	}

	rule, _ := availability.RuleForWeekday(rules, weekday)
	if rule == nil {
		return ErrRuleNotFound
	}

	if err := s.backend.DeleteRule(ctx, rule.ID); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	s.logger.Info("Schedule rule deleted",
		zap.Int64("company_id", companyID),
		zap.Int64("rule_id", rule.ID),
		zap.Int("weekday", weekday))
	return nil
}

// ListBlackouts возвращает блокировки: сначала ежедневные, затем по датам
func (s *ScheduleService) ListBlackouts(ctx context.Context, companyID int64) ([]model.BlackoutWindow, error) {
	windows, err := s.backend.ListBlackouts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list blackouts: %w", err)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if a.Recurring() != b.Recurring() {
			return a.Recurring()
		}
		if !a.Recurring() && *a.Date != *b.Date {
			return a.Date.Before(*b.Date)
		}
		return a.StartTime < b.StartTime
	})
	return windows, nil
}

// CreateBlackout проверяет и создаёт окно блокировки
func (s *ScheduleService) CreateBlackout(ctx context.Context, window *model.BlackoutWindow) (*model.BlackoutWindow, error) {
	start, err := availability.ParseClock(window.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlackout, err)
	}
	end, err := availability.ParseClock(window.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlackout, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidBlackout)
	}

	normalized := *window
	normalized.StartTime = availability.FormatClock(start)
	normalized.EndTime = availability.FormatClock(end)

	created, err := s.backend.CreateBlackout(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("create blackout: %w", err)
	}
	s.logger.Info("Blackout created",
		zap.Int64("company_id", window.CompanyID),
		zap.Int64("blackout_id", created.ID))
	return created, nil
}

// DeleteBlackout удаляет окно блокировки
func (s *ScheduleService) DeleteBlackout(ctx context.Context, companyID, windowID int64) error {
	if err := s.backend.DeleteBlackout(ctx, windowID); err != nil {
		return fmt.Errorf("delete blackout: %w", err)
	}
	s.logger.Info("Blackout deleted",
		zap.Int64("company_id", companyID),
		zap.Int64("blackout_id", windowID))
	return nil
}

// ListAppointments возвращает записи дня по времени, отменённые в конце
func (s *ScheduleService) ListAppointments(ctx context.Context, companyID int64, date civil.Date) ([]model.Appointment, error) {
	appointments, err := s.backend.ListAppointments(ctx, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if a.Canceled() != b.Canceled() {
			return !a.Canceled()
		}
		return a.Time < b.Time
	})
	return appointments, nil
}
