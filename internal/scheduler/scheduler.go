package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job задача, запускаемая по расписанию
type Job func(ctx context.Context) error

// Scheduler управляет запланированными задачами
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New создает новый планировщик (время в UTC)
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add регистрирует задачу name по cron-выражению spec
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(s.ctx); err != nil {
			log.Printf("❌ Scheduled job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	log.Printf("📅 Job %s scheduled: %s", name, spec)
	return nil
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	if len(s.cron.Entries()) == 0 {
		log.Println("⚠️ No jobs registered, scheduler will stay idle")
	}
	s.cron.Start()
	log.Println("📅 Scheduler started")
}

// Stop останавливает планировщик и ждет завершения текущих задач
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning проверяет, есть ли запланированные задачи
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
