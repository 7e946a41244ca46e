package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper закрывает сессии, неактивные дольше idle
type SessionSweeper interface {
	Sweep(idle time.Duration, now time.Time) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  SessionSweeper
	idleTTL  time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sweeper SessionSweeper, idleTTL, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		idleTTL:  idleTTL,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("idle_ttl", s.idleTTL),
		zap.Duration("interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runSweepTask периодически закрывает неактивные сессии чатов
func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.sweep(now)
		case <-s.stopChan:
			s.logger.Info("Session sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweep(now time.Time) {
	closed := s.sweeper.Sweep(s.idleTTL, now)
	if closed > 0 {
		s.logger.Info("Closed idle sessions", zap.Int("count", closed))
	}
}
