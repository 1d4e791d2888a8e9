// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночная отправка лог-файла
// в служебный чат.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/logship"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron    *cron.Cron
	shipper *logship.Shipper
}

// NewScheduler создаёт планировщик задач.
func NewScheduler(shipper *logship.Shipper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		shipper: shipper,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ночная отправка логов в 04:00
	s.cron.AddFunc("0 4 * * *", func() {
		log.Info("[CRON] Отправка лог-файла")
		if err := s.shipper.Ship(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка отправки логов")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик, дождавшись активных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
