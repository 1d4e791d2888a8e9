// Package users — service.go содержит бизнес-логику работы с пользователями:
// ленивое создание записей и разрешение цели команды.
package users

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/common"
)

// Service управляет записями пользователей и чатов.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreateFromTG возвращает локального пользователя по данным Telegram,
// создавая запись при первом появлении. Если у tg-объекта нет id
// (анонимный или пересланный отправитель) — common.ErrNoTargetUserID.
func (s *Service) GetOrCreateFromTG(ctx context.Context, tgUser *tgbotapi.User) (*User, error) {
	if tgUser == nil || tgUser.ID == 0 {
		return nil, common.ErrNoTargetUserID
	}
	return s.repo.UpsertUser(ctx, tgUser.ID, tgUser.UserName, tgUser.FirstName, tgUser.LastName)
}

// GetOrCreateChat возвращает локальную запись чата, создавая её при первом сообщении.
func (s *Service) GetOrCreateChat(ctx context.Context, tgChat *tgbotapi.Chat) (*Chat, error) {
	if tgChat == nil {
		return nil, fmt.Errorf("nil chat")
	}
	return s.repo.UpsertChat(ctx, tgChat.ID, tgChat.Title, tgChat.Type)
}

// GetByUsername возвращает пользователя по @username (без @).
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// ResolveTarget превращает цель команды (автор reply или упоминание)
// в локального пользователя. Если у tg-объекта нет id, пробуем вторичный
// поиск по username в своей базе; если и он не дал результата —
// возвращаем исходную ошибку, обогащённую контекстом актора и чата в логе.
func (s *Service) ResolveTarget(ctx context.Context, tgUser *tgbotapi.User, username string, actorTGID, chatTGID int64) (*User, error) {
	target, err := s.GetOrCreateFromTG(ctx, tgUser)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, common.ErrNoTargetUserID) {
		return nil, err
	}

	if username != "" {
		if byName, lookupErr := s.repo.GetByUsername(ctx, username); lookupErr == nil {
			return byName, nil
		}
	}

	log.WithFields(log.Fields{
		"actor_tg_id": actorTGID,
		"chat_tg_id":  chatTGID,
		"username":    username,
	}).Warn("Цель команды не разрешена: нет telegram id")
	return nil, err
}

// CanChangeKarma запрещает менять карму самому себе.
// Это анти-абьюз: такие попытки игнорируются молча, без ответа в чат.
func CanChangeKarma(target, actor *User) bool {
	return target.TGID != actor.TGID
}
