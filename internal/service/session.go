package service

import (
	"context"
	"errors"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSuperseded - пока шла загрузка, была выбрана другая дата; результат нужно игнорировать
	ErrSuperseded = errors.New("date selection superseded")
	// ErrSessionClosed - сессия экрана уже закрыта
	ErrSessionClosed = errors.New("session closed")
)

// DayLoader загружает один день
type DayLoader interface {
	LoadDay(ctx context.Context, req DayRequest) (*Day, error)
}

type cacheEntry struct {
	seq uint64
	day *Day
}

// Session - состояние одного экрана записи: компания, длительность услуги,
// выбранная дата и кеш рассчитанных дней по дате.
type Session struct {
	loader    DayLoader
	companyID int64
	duration  int
	logger    *zap.Logger

	mu         sync.Mutex
	generation uint64
	seq        uint64
	floor      uint64 // загрузки с seq <= floor начались до Invalidate
	selected   civil.Date
	cancel     context.CancelFunc
	cache      map[civil.Date]cacheEntry
	closed     bool
}

func NewSession(loader DayLoader, companyID int64, serviceDuration int, logger *zap.Logger) *Session {
	return &Session{
		loader:    loader,
		companyID: companyID,
		duration:  serviceDuration,
		logger:    logger,
		cache:     make(map[civil.Date]cacheEntry),
	}
}

func (s *Session) CompanyID() int64 {
	return s.companyID
}

func (s *Session) ServiceDuration() int {
	return s.duration
}

// Selected возвращает последнюю выбранную дату
func (s *Session) Selected() (civil.Date, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.generation > 0
}

// SelectDate выбирает дату и загружает её заново. Загрузка предыдущей даты отменяется.
// Если до завершения была выбрана другая дата, возвращается ErrSuperseded.
func (s *Session) SelectDate(ctx context.Context, date civil.Date) (*Day, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.seq++
	seq := s.seq
	s.selected = date
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	day, err := s.loader.LoadDay(loadCtx, s.request(date))

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()

	if gen != s.generation || s.closed {
		s.logger.Debug("Ignoring stale day load",
			zap.Int64("company_id", s.companyID),
			zap.String("date", date.String()))
		return nil, ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		return day, err
	}
	s.store(date, seq, day)
	return day, nil
}

// Prefetch загружает дни [from, from+days) параллельно и кладёт их в кеш.
// Ответ не перезаписывает более свежие данные той же даты.
func (s *Session) Prefetch(ctx context.Context, from civil.Date, days int) []*Day {
	if days <= 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	seqs := make([]uint64, days)
	for i := range seqs {
		s.seq++
		seqs[i] = s.seq
	}
	s.mu.Unlock()

	results := make([]*Day, days)
	var g errgroup.Group
	g.SetLimit(defaultRangeConcurrency)

	for i := 0; i < days; i++ {
		i := i
		date := from.AddDays(i)
		g.Go(func() error {
			day, err := s.loader.LoadDay(ctx, s.request(date))
			if err != nil {
				if day == nil {
					day = failedDay(date, err)
				}
				results[i] = day
				return nil
			}
			results[i] = day

			s.mu.Lock()
			if !s.closed {
				s.store(date, seqs[i], day)
			}
			s.mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Cached возвращает день из кеша сессии
func (s *Session) Cached(date civil.Date) (*Day, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[date]
	if !ok {
		return nil, false
	}
	return entry.day, true
}

// Invalidate очищает кеш (явное обновление экрана).
// Загрузки, начатые до вызова, в кеш больше не попадут.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floor = s.seq
	s.cache = make(map[civil.Date]cacheEntry)
}

// Close отменяет текущую загрузку и очищает кеш
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.closed = true
	s.floor = s.seq
	s.cache = make(map[civil.Date]cacheEntry)
}

func (s *Session) request(date civil.Date) DayRequest {
	return DayRequest{
		CompanyID:              s.companyID,
		Date:                   date,
		ServiceDurationMinutes: s.duration,
	}
}

// store сохраняет день, если в кеше нет результата более поздней загрузки
// и загрузка начата после последнего Invalidate
func (s *Session) store(date civil.Date, seq uint64, day *Day) {
	if day == nil || seq <= s.floor {
		return
	}
	if existing, ok := s.cache[date]; ok && existing.seq > seq {
		return
	}
	s.cache[date] = cacheEntry{seq: seq, day: day}
}

func failedDay(date civil.Date, err error) *Day {
	return &Day{
		Date:    date,
		Weekday: availability.WeekdayOf(date),
		Status:  availability.DayFailed,
		Err:     err,
	}
}
