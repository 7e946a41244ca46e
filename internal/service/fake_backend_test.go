package service

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
)

type fakeBackend struct {
	mu sync.Mutex

	rules        []model.WeeklyScheduleRule
	blackouts    []model.BlackoutWindow
	appointments []model.Appointment
	serverSlots  map[civil.Date][]model.TimeSlot

	rulesErr        error
	blackoutsErr    error
	appointmentsErr map[civil.Date]error

	nextID  int64
	deleted []int64
	calls   map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		serverSlots:     make(map[civil.Date][]model.TimeSlot),
		appointmentsErr: make(map[civil.Date]error),
		calls:           make(map[string]int),
		nextID:          100,
	}
}

func (f *fakeBackend) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListRules(_ context.Context, _ int64) ([]model.WeeklyScheduleRule, error) {
	f.called("rules")
	if f.rulesErr != nil {
		return nil, f.rulesErr
	}
	return append([]model.WeeklyScheduleRule(nil), f.rules...), nil
}

func (f *fakeBackend) ListBlackouts(_ context.Context, _ int64) ([]model.BlackoutWindow, error) {
	f.called("blackouts")
	if f.blackoutsErr != nil {
		return nil, f.blackoutsErr
	}
	return append([]model.BlackoutWindow(nil), f.blackouts...), nil
}

func (f *fakeBackend) ListAppointments(_ context.Context, _ int64, date civil.Date) ([]model.Appointment, error) {
	f.called("appointments")
	if err := f.appointmentsErr[date]; err != nil {
		return nil, err
	}
	var out []model.Appointment
	for _, a := range f.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeBackend) ListServerSlots(_ context.Context, _ int64, date civil.Date) ([]model.TimeSlot, error) {
	f.called("server_slots")
	return f.serverSlots[date], nil
}

func (f *fakeBackend) CreateRule(_ context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error) {
	f.called("create_rule")
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *rule
	f.nextID++
	saved.ID = f.nextID
	f.rules = append(f.rules, saved)
	return &saved, nil
}

func (f *fakeBackend) UpdateRule(_ context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error) {
	f.called("update_rule")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rules {
		if f.rules[i].ID == rule.ID {
			f.rules[i] = *rule
		}
	}
	saved := *rule
	return &saved, nil
}

func (f *fakeBackend) DeleteRule(_ context.Context, ruleID int64) error {
	f.called("delete_rule")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ruleID)
	return nil
}

func (f *fakeBackend) CreateBlackout(_ context.Context, window *model.BlackoutWindow) (*model.BlackoutWindow, error) {
	f.called("create_blackout")
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *window
	f.nextID++
	saved.ID = f.nextID
	f.blackouts = append(f.blackouts, saved)
	return &saved, nil
}

func (f *fakeBackend) DeleteBlackout(_ context.Context, windowID int64) error {
	f.called("delete_blackout")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, windowID)
	return nil
}
