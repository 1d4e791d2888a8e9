// Package moderation — service.go содержит исполнитель модерационных
// действий. Правило атомарности: платформенное действие и запись аудита —
// одно целое. Упал restrict/kick — аудита нет и успеха нет.
package moderation

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"karmabot/internal/common"
)

// Platform — примитивы Telegram, которые дергает исполнитель.
type Platform interface {
	Restrict(ctx context.Context, chatTGID, userTGID int64, until time.Time) error
	Ban(ctx context.Context, chatTGID, userTGID int64, until time.Time) error
}

// EventStore — контракт журнала аудита (реализуется Repository).
type EventStore interface {
	SaveNewAction(ctx context.Context, ev *ModeratorEvent) error
	ListForUser(ctx context.Context, targetTGID, chatTGID int64, limit int) ([]*ModeratorEvent, error)
}

// Service — исполнитель mute/ban/warn.
type Service struct {
	platform Platform
	events   EventStore
	now      func() time.Time
}

// NewService создаёт исполнитель модерационных действий.
func NewService(platform Platform, events EventStore) *Service {
	return &Service{platform: platform, events: events, now: time.Now}
}

// Mute запрещает цели писать в чат на duration.
func (s *Service) Mute(ctx context.Context, chatTGID, moderatorTGID, targetTGID int64, duration time.Duration, comment string) error {
	until := s.now().Add(duration)
	if err := s.platform.Restrict(ctx, chatTGID, targetTGID, until); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id":     chatTGID,
			"target_user": targetTGID,
		}).Error("Telegram отклонил restrict")
		return fmt.Errorf("%w: %v", common.ErrPlatformCall, err)
	}

	log.WithFields(log.Fields{
		"user":     targetTGID,
		"admin":    moderatorTGID,
		"duration": duration.String(),
	}).Info("Пользователь ограничен")

	s.audit(ctx, &ModeratorEvent{
		ModeratorTGID: moderatorTGID,
		TargetTGID:    targetTGID,
		ChatTGID:      chatTGID,
		Kind:          KindMute,
		Duration:      &duration,
		Comment:       comment,
	})
	return nil
}

// Ban удаляет цель из чата на duration.
func (s *Service) Ban(ctx context.Context, chatTGID, moderatorTGID, targetTGID int64, duration time.Duration, comment string) error {
	until := s.now().Add(duration)
	if err := s.platform.Ban(ctx, chatTGID, targetTGID, until); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id":     chatTGID,
			"target_user": targetTGID,
		}).Error("Telegram отклонил kick")
		return fmt.Errorf("%w: %v", common.ErrPlatformCall, err)
	}

	log.WithFields(log.Fields{
		"user":     targetTGID,
		"admin":    moderatorTGID,
		"duration": duration.String(),
	}).Info("Пользователь забанен")

	s.audit(ctx, &ModeratorEvent{
		ModeratorTGID: moderatorTGID,
		TargetTGID:    targetTGID,
		ChatTGID:      chatTGID,
		Kind:          KindBan,
		Duration:      &duration,
		Comment:       comment,
	})
	return nil
}

// Warn — чисто аудитное действие: платформенный примитив не вызывается.
// Здесь ошибка аудита означает, что действие не состоялось вовсе,
// поэтому она возвращается вызывающему.
func (s *Service) Warn(ctx context.Context, chatTGID, moderatorTGID, targetTGID int64, comment string) error {
	return s.events.SaveNewAction(ctx, &ModeratorEvent{
		ModeratorTGID: moderatorTGID,
		TargetTGID:    targetTGID,
		ChatTGID:      chatTGID,
		Kind:          KindWarn,
		Comment:       comment,
	})
}

// History возвращает историю модерационных действий над целью для !info.
func (s *Service) History(ctx context.Context, targetTGID, chatTGID int64) ([]*ModeratorEvent, error) {
	return s.events.ListForUser(ctx, targetTGID, chatTGID, 20)
}

// audit пишет запись журнала. Ошибка после успешного платформенного
// вызова — признанная несогласованность: громко логируем, но действие
// уже выполнено, отменять его нечем.
func (s *Service) audit(ctx context.Context, ev *ModeratorEvent) {
	if err := s.events.SaveNewAction(ctx, ev); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"kind":        ev.Kind,
			"target_user": ev.TargetTGID,
			"chat_id":     ev.ChatTGID,
		}).Error("Действие выполнено, но аудит не записан")
	}
}
