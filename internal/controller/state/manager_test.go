package state

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopLoader struct{}

func (nopLoader) LoadDay(_ context.Context, req service.DayRequest) (*service.Day, error) {
	return &service.Day{Date: req.Date}, nil
}

func newTestManager() (*Manager, *int) {
	created := 0
	m := NewManager(func(companyID int64, duration int) *service.Session {
		created++
		return service.NewSession(nopLoader{}, companyID, duration, zap.NewNop())
	})
	return m, &created
}

func TestManager_StateLifecycle(t *testing.T) {
	m, _ := newTestManager()

	assert.Equal(t, StateNone, m.GetState(1))
	m.SetState(1, StateAwaitingToken)
	assert.Equal(t, StateAwaitingToken, m.GetState(1))

	m.SetToken(1, "abc")
	m.ClearState(1)
	assert.Equal(t, StateNone, m.GetState(1))
	assert.Equal(t, "abc", m.Profile(1).Token)
}

func TestManager_SessionRequiresCompany(t *testing.T) {
	m, created := newTestManager()

	_, ok := m.Session(1)
	assert.False(t, ok)

	m.SetCompany(1, 42)
	s1, ok := m.Session(1)
	require.True(t, ok)
	assert.Equal(t, int64(42), s1.CompanyID())
	assert.Equal(t, DefaultServiceDuration, s1.ServiceDuration())

	s2, _ := m.Session(1)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, *created)
}

func TestManager_ProfileChangeReplacesSession(t *testing.T) {
	m, created := newTestManager()
	m.SetCompany(1, 42)
	old, _ := m.Session(1)

	m.SetServiceDuration(1, 60)
	_, err := old.SelectDate(context.Background(), civil.Date{Year: 2026, Month: time.March, Day: 10})
	assert.ErrorIs(t, err, service.ErrSessionClosed)

	fresh, ok := m.Session(1)
	require.True(t, ok)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, 60, fresh.ServiceDuration())

	// та же компания - сессия не пересоздаётся
	m.SetCompany(1, 42)
	same, _ := m.Session(1)
	assert.Same(t, fresh, same)
	assert.Equal(t, 2, *created)
}

func TestManager_Sweep(t *testing.T) {
	m, _ := newTestManager()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return base }
	m.SetCompany(1, 42)
	session, _ := m.Session(1)

	m.now = func() time.Time { return base.Add(20 * time.Minute) }
	m.SetToken(2, "tok")

	removed := m.Sweep(15*time.Minute, base.Add(25*time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, int64(0), m.Profile(1).CompanyID)
	assert.Equal(t, "tok", m.Profile(2).Token)

	_, err := session.SelectDate(context.Background(), civil.Date{Year: 2026, Month: time.March, Day: 10})
	assert.ErrorIs(t, err, service.ErrSessionClosed)
}

func TestManager_Forget(t *testing.T) {
	m, _ := newTestManager()
	m.SetToken(1, "x")
	m.Forget(1)
	m.Forget(1)
	assert.Zero(t, m.Len())
	assert.Equal(t, DefaultServiceDuration, m.Profile(1).ServiceDuration)
}
