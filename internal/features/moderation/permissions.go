// Package moderation — permissions.go проверяет права на модерационные
// действия: способность актора и самого бота ограничивать участников.
// Списки администраторов кэшируются с TTL, чтобы не дёргать Telegram
// на каждое сообщение.
package moderation

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maypok86/otter/v2"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/common"
)

// AdminSource — источник сведений о правах в чате (реализуется поверх Bot API).
type AdminSource interface {
	Administrators(ctx context.Context, chatTGID int64) ([]tgbotapi.ChatMember, error)
	BotMember(ctx context.Context, chatTGID int64) (tgbotapi.ChatMember, error)
}

// Gate — гейт прав доступа с кэшем списков администраторов.
type Gate struct {
	src    AdminSource
	admins *otter.Cache[int64, []tgbotapi.ChatMember]
	bot    *otter.Cache[int64, tgbotapi.ChatMember]
}

// NewGate создаёт гейт прав с кэшем на ttl.
func NewGate(src AdminSource, ttl time.Duration) *Gate {
	return &Gate{
		src: src,
		admins: otter.Must(&otter.Options[int64, []tgbotapi.ChatMember]{
			MaximumSize:      1024,
			ExpiryCalculator: otter.ExpiryWriting[int64, []tgbotapi.ChatMember](ttl),
		}),
		bot: otter.Must(&otter.Options[int64, tgbotapi.ChatMember]{
			MaximumSize:      1024,
			ExpiryCalculator: otter.ExpiryWriting[int64, tgbotapi.ChatMember](ttl),
		}),
	}
}

func (g *Gate) administrators(ctx context.Context, chatTGID int64) ([]tgbotapi.ChatMember, error) {
	if cached, ok := g.admins.GetIfPresent(chatTGID); ok {
		return cached, nil
	}
	admins, err := g.src.Administrators(ctx, chatTGID)
	if err != nil {
		return nil, err
	}
	g.admins.Set(chatTGID, admins)
	return admins, nil
}

func (g *Gate) botMember(ctx context.Context, chatTGID int64) (tgbotapi.ChatMember, error) {
	if cached, ok := g.bot.GetIfPresent(chatTGID); ok {
		return cached, nil
	}
	m, err := g.src.BotMember(ctx, chatTGID)
	if err != nil {
		return tgbotapi.ChatMember{}, err
	}
	g.bot.Set(chatTGID, m)
	return m, nil
}

// UserCanRestrict проверяет, может ли пользователь ограничивать участников:
// создатель чата либо администратор с can_restrict_members.
// Ошибка источника трактуется как отсутствие права.
func (g *Gate) UserCanRestrict(ctx context.Context, chatTGID, userTGID int64) bool {
	admins, err := g.administrators(ctx, chatTGID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatTGID).Warn("Не удалось получить администраторов чата")
		return false
	}
	for _, a := range admins {
		if a.User == nil || a.User.ID != userTGID {
			continue
		}
		return a.IsCreator() || a.CanRestrictMembers
	}
	return false
}

// BotCanRestrict проверяет, выданы ли боту права ограничивать участников.
func (g *Gate) BotCanRestrict(ctx context.Context, chatTGID int64) bool {
	m, err := g.botMember(ctx, chatTGID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatTGID).Warn("Не удалось получить права бота в чате")
		return false
	}
	return m.IsAdministrator() && m.CanRestrictMembers
}

// BotCanDelete проверяет, может ли бот удалять чужие сообщения.
func (g *Gate) BotCanDelete(ctx context.Context, chatTGID int64) bool {
	m, err := g.botMember(ctx, chatTGID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatTGID).Warn("Не удалось получить права бота в чате")
		return false
	}
	return m.IsAdministrator() && m.CanDeleteMessages
}

// AdminsToNotify возвращает администраторов, которых стоит уведомлять
// о жалобах: тех, кто сам может удалять сообщения или ограничивать
// участников, плюс создателя. Боты исключаются.
func (g *Gate) AdminsToNotify(ctx context.Context, chatTGID int64) ([]tgbotapi.ChatMember, error) {
	admins, err := g.administrators(ctx, chatTGID)
	if err != nil {
		return nil, err
	}
	var out []tgbotapi.ChatMember
	for _, a := range admins {
		if a.User == nil || a.User.IsBot {
			continue
		}
		if a.IsCreator() || a.CanDeleteMessages || a.CanRestrictMembers {
			out = append(out, a)
		}
	}
	return out, nil
}

// HiddenMentions собирает невидимые упоминания администраторов:
// уведомление приходит, видимого пинга в чате нет.
func HiddenMentions(admins []tgbotapi.ChatMember) string {
	var b strings.Builder
	for _, a := range admins {
		if a.User == nil {
			continue
		}
		b.WriteString(common.HiddenMention(a.User.ID))
	}
	return b.String()
}
