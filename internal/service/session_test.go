package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gatedLoader блокирует загрузку даты, пока тест не откроет её ворота
type gatedLoader struct {
	mu       sync.Mutex
	gates    map[civil.Date]chan struct{}
	started  chan civil.Date
	canceled map[civil.Date]bool
	version  int
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		gates:    make(map[civil.Date]chan struct{}),
		started:  make(chan civil.Date, 16),
		canceled: make(map[civil.Date]bool),
	}
}

func (l *gatedLoader) gate(date civil.Date) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.gates[date]
	if !ok {
		ch = make(chan struct{})
		l.gates[date] = ch
	}
	return ch
}

func (l *gatedLoader) LoadDay(ctx context.Context, req DayRequest) (*Day, error) {
	l.mu.Lock()
	l.version++
	version := l.version
	l.mu.Unlock()

	l.started <- req.Date
	<-l.gate(req.Date)

	if ctx.Err() != nil {
		l.mu.Lock()
		l.canceled[req.Date] = true
		l.mu.Unlock()
	}
	return &Day{Date: req.Date, Status: availability.DayAvailable, ClosingBoundary: version}, nil
}

func waitStarted(t *testing.T, l *gatedLoader) civil.Date {
	t.Helper()
	select {
	case d := <-l.started:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("load did not start")
		return civil.Date{}
	}
}

func TestSession_StaleSelectionIgnored(t *testing.T) {
	loader := newGatedLoader()
	session := NewSession(loader, 3, 30, zap.NewNop())
	ctx := context.Background()

	type result struct {
		day *Day
		err error
	}
	first := make(chan result, 1)
	go func() {
		day, err := session.SelectDate(ctx, tue)
		first <- result{day, err}
	}()
	require.Equal(t, tue, waitStarted(t, loader))

	second := make(chan result, 1)
	go func() {
		day, err := session.SelectDate(ctx, wed)
		second <- result{day, err}
	}()
	require.Equal(t, wed, waitStarted(t, loader))

	close(loader.gate(wed))
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, wed, got.day.Date)

	close(loader.gate(tue))
	stale := <-first
	assert.ErrorIs(t, stale.err, ErrSuperseded)
	assert.Nil(t, stale.day)

	loader.mu.Lock()
	assert.True(t, loader.canceled[tue])
	loader.mu.Unlock()

	selected, ok := session.Selected()
	require.True(t, ok)
	assert.Equal(t, wed, selected)

	_, cached := session.Cached(tue)
	assert.False(t, cached)
	_, cached = session.Cached(wed)
	assert.True(t, cached)
}

func TestSession_LatePrefetchDoesNotOverwrite(t *testing.T) {
	loader := newGatedLoader()
	session := NewSession(loader, 3, 30, zap.NewNop())
	ctx := context.Background()

	done := make(chan []*Day, 1)
	go func() { done <- session.Prefetch(ctx, wed, 1) }()
	require.Equal(t, wed, waitStarted(t, loader))

	selected := make(chan *Day, 1)
	go func() {
		day, err := session.SelectDate(ctx, wed)
		assert.NoError(t, err)
		selected <- day
	}()
	require.Equal(t, wed, waitStarted(t, loader))

	// одни ворота на дату: обе загрузки завершаются, порядок не важен
	close(loader.gate(wed))
	fresh := <-selected
	<-done

	cached, ok := session.Cached(wed)
	require.True(t, ok)
	assert.Same(t, fresh, cached)
}

func TestSession_PrefetchFillsCache(t *testing.T) {
	svc := newTestAvailability(seededBackend(), SourceClient)
	session := NewSession(svc, 3, 30, zap.NewNop())

	days := session.Prefetch(context.Background(), tue, 7)
	require.Len(t, days, 7)

	for i := 0; i < 7; i++ {
		date := tue.AddDays(i)
		day, ok := session.Cached(date)
		require.True(t, ok, date.String())
		assert.Equal(t, date, day.Date)
	}

	session.Invalidate()
	_, ok := session.Cached(tue)
	assert.False(t, ok)
}

func TestSession_FailedLoadNotCached(t *testing.T) {
	f := seededBackend()
	f.appointmentsErr[wed] = errors.New("timeout")
	session := NewSession(newTestAvailability(f, SourceClient), 3, 30, zap.NewNop())

	day, err := session.SelectDate(context.Background(), wed)
	require.Error(t, err)
	assert.Equal(t, availability.DayFailed, day.Status)

	_, ok := session.Cached(wed)
	assert.False(t, ok)
}

func TestSession_Close(t *testing.T) {
	session := NewSession(newTestAvailability(seededBackend(), SourceClient), 3, 30, zap.NewNop())
	session.Close()

	_, err := session.SelectDate(context.Background(), wed)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Nil(t, session.Prefetch(context.Background(), wed, 3))
}

func TestSession_PrefetchStartedBeforeInvalidateNotCached(t *testing.T) {
	loader := newGatedLoader()
	session := NewSession(loader, 3, 30, zap.NewNop())

	done := make(chan []*Day, 1)
	go func() { done <- session.Prefetch(context.Background(), wed, 1) }()
	require.Equal(t, wed, waitStarted(t, loader))

	session.Invalidate()
	close(loader.gate(wed))
	days := <-done

	// результат отдан вызывающему, но в кеш не попал
	require.Len(t, days, 1)
	assert.Equal(t, wed, days[0].Date)
	_, ok := session.Cached(wed)
	assert.False(t, ok)

	// загрузка после обновления кешируется как обычно
	day, err := session.SelectDate(context.Background(), wed)
	require.NoError(t, err)
	cached, ok := session.Cached(wed)
	require.True(t, ok)
	assert.Same(t, day, cached)
}
