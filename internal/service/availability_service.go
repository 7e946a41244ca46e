package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Backend - источник сырых данных о расписании
type Backend interface {
	ListRules(ctx context.Context, companyID int64) ([]model.WeeklyScheduleRule, error)
	ListBlackouts(ctx context.Context, companyID int64) ([]model.BlackoutWindow, error)
	ListAppointments(ctx context.Context, companyID int64, date civil.Date) ([]model.Appointment, error)
	ListServerSlots(ctx context.Context, companyID int64, date civil.Date) ([]model.TimeSlot, error)
}

// Source определяет, кто накладывает занятость на слоты
type Source string

const (
	SourceClient Source = "client" // сырые записи и блокировки, расчёт здесь
	SourceServer Source = "server" // слоты уже размечены сервером
)

// ParseSource разбирает значение настройки AVAILABILITY_SOURCE
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case "", SourceClient:
		return SourceClient, nil
	case SourceServer:
		return SourceServer, nil
	default:
		return "", fmt.Errorf("unknown availability source %q", s)
	}
}

const defaultRangeConcurrency = 4

// AvailabilityOptions - настройки расчёта доступности
type AvailabilityOptions struct {
	Source        Source
	OffsetMinutes int
	Concurrency   int
	Now           func() time.Time
}

// AvailabilityService загружает данные и считает доступные слоты по дням
type AvailabilityService struct {
	backend     Backend
	source      Source
	offset      int
	concurrency int
	now         func() time.Time
	tracer      trace.Tracer
	logger      *zap.Logger
}

func NewAvailabilityService(backend Backend, opts AvailabilityOptions, logger *zap.Logger) *AvailabilityService {
	if opts.Source == "" {
		opts.Source = SourceClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultRangeConcurrency
	}

	return &AvailabilityService{
		backend:     backend,
		source:      opts.Source,
		offset:      opts.OffsetMinutes,
		concurrency: opts.Concurrency,
		now:         opts.Now,
		tracer:      otel.Tracer("github.com/Freeeeeet/agenda/internal/service"),
		logger:      logger,
	}
}

// DayRequest - запрос слотов на дату
type DayRequest struct {
	CompanyID              int64
	Date                   civil.Date
	ServiceDurationMinutes int
}

// Day - рассчитанный день
type Day struct {
	Date            civil.Date
	Weekday         int
	Status          availability.DayStatus
	Source          Source
	Rule            *model.WeeklyScheduleRule
	Slots           []model.TimeSlot
	Bookable        []model.TimeSlot
	ClosingBoundary int
	Err             error
}

// BusinessNow возвращает текущее время бизнеса
func (s *AvailabilityService) BusinessNow() availability.BusinessTime {
	return availability.BusinessNow(s.now(), s.offset)
}

// LoadDay загружает данные и считает слоты дня.
// При ошибке загрузки день возвращается со статусом DayFailed и без слотов.
func (s *AvailabilityService) LoadDay(ctx context.Context, req DayRequest) (*Day, error) {
	ctx, span := s.tracer.Start(ctx, "availability.LoadDay", trace.WithAttributes(
		attribute.Int64("company_id", req.CompanyID),
		attribute.String("date", req.Date.String()),
		attribute.String("source", string(s.source)),
	))
	defer span.End()

	day := &Day{
		Date:    req.Date,
		Weekday: availability.WeekdayOf(req.Date),
		Source:  s.source,
	}

	var (
		result *availability.DayResult
		err    error
	)
	switch s.source {
	case SourceServer:
		result, day.Rule, err = s.loadServerDay(ctx, req, day.Weekday)
	default:
		result, day.Rule, err = s.loadClientDay(ctx, req, day.Weekday)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load day failed")
		s.logger.Error("Failed to load day",
			zap.Int64("company_id", req.CompanyID),
			zap.String("date", req.Date.String()),
			zap.Error(err))

		day.Status = availability.DayFailed
		day.Err = err
		return day, err
	}

	day.Status = result.Status
	day.Slots = result.Slots
	day.Bookable = result.Bookable
	day.ClosingBoundary = result.ClosingBoundary
	span.SetAttributes(
		attribute.String("status", string(day.Status)),
		attribute.Int("bookable", len(day.Bookable)),
	)

	return day, nil
}

func (s *AvailabilityService) loadClientDay(ctx context.Context, req DayRequest, weekday int) (*availability.DayResult, *model.WeeklyScheduleRule, error) {
	var (
		rules        []model.WeeklyScheduleRule
		blackouts    []model.BlackoutWindow
		appointments []model.Appointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rules, err = s.backend.ListRules(gctx, req.CompanyID); err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if blackouts, err = s.backend.ListBlackouts(gctx, req.CompanyID); err != nil {
			return fmt.Errorf("load blackouts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if appointments, err = s.backend.ListAppointments(gctx, req.CompanyID, req.Date); err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	rule := s.pickRule(rules, req.CompanyID, weekday)
	result, err := availability.ComputeDay(availability.DayInput{
		Date:            req.Date,
		Rule:            rule,
		Appointments:    appointments,
		Blackouts:       blackouts,
		ServiceDuration: req.ServiceDurationMinutes,
		Now:             s.BusinessNow(),
	})
	if err != nil {
		return nil, rule, fmt.Errorf("generate slots: %w", err)
	}

	for _, skipped := range result.Skipped {
		s.logger.Warn("Skipped malformed record",
			zap.Int64("company_id", req.CompanyID),
			zap.String("date", req.Date.String()),
			zap.Error(skipped))
	}

	return result, rule, nil
}

func (s *AvailabilityService) loadServerDay(ctx context.Context, req DayRequest, weekday int) (*availability.DayResult, *model.WeeklyScheduleRule, error) {
	var (
		rules []model.WeeklyScheduleRule
		slots []model.TimeSlot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rules, err = s.backend.ListRules(gctx, req.CompanyID); err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if slots, err = s.backend.ListServerSlots(gctx, req.CompanyID, req.Date); err != nil {
			return fmt.Errorf("load server slots: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	rule := s.pickRule(rules, req.CompanyID, weekday)
	return availability.ComputeServerDay(availability.ServerDayInput{
		Date:            req.Date,
		Rule:            rule,
		Slots:           slots,
		ServiceDuration: req.ServiceDurationMinutes,
		Now:             s.BusinessNow(),
	}), rule, nil
}

func (s *AvailabilityService) pickRule(rules []model.WeeklyScheduleRule, companyID int64, weekday int) *model.WeeklyScheduleRule {
	rule, duplicates := availability.RuleForWeekday(rules, weekday)
	if duplicates > 0 {
		s.logger.Warn("Several rules for one weekday, using the first",
			zap.Int64("company_id", companyID),
			zap.Int("weekday", weekday),
			zap.Int("ignored", duplicates))
	}
	return rule
}

// RangeRequest - запрос нескольких дней подряд
type RangeRequest struct {
	CompanyID              int64
	From                   civil.Date
	Days                   int
	ServiceDurationMinutes int
}

// LoadRange загружает дни параллельно. Ошибка одного дня не влияет на остальные:
// такой день возвращается со статусом DayFailed.
func (s *AvailabilityService) LoadRange(ctx context.Context, req RangeRequest) []*Day {
	if req.Days <= 0 {
		return nil
	}

	days := make([]*Day, req.Days)
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i := 0; i < req.Days; i++ {
		i := i
		g.Go(func() error {
			days[i], _ = s.LoadDay(ctx, DayRequest{
				CompanyID:              req.CompanyID,
				Date:                   req.From.AddDays(i),
				ServiceDurationMinutes: req.ServiceDurationMinutes,
			})
			return nil
		})
	}
	_ = g.Wait()

	return days
}
