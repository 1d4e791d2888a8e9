// Package karma — handlers.go обрабатывает реакции ±1 и команду !карма.
package karma

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot/filters"
	"karmabot/internal/bot/middleware"
	"karmabot/internal/common"
	"karmabot/internal/features/users"
)

var howChange = map[int]string{
	+1: "увеличили",
	-1: "уменьшили",
}

// Sender — отправка сообщений в чат (реализуется *tgbotapi.BotAPI).
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Resolver — разрешение цели команды в локального пользователя
// (реализуется users.Service).
type Resolver interface {
	ResolveTarget(ctx context.Context, tgUser *tgbotapi.User, username string, actorTGID, chatTGID int64) (*users.User, error)
}

// Handler обрабатывает события кармы.
type Handler struct {
	service  *Service
	users    Resolver
	throttle *middleware.Throttle
	bot      Sender
}

// NewHandler создаёт обработчик кармы.
func NewHandler(service *Service, resolver Resolver, throttle *middleware.Throttle, bot Sender) *Handler {
	return &Handler{service: service, users: resolver, throttle: throttle, bot: bot}
}

// HandleChange обрабатывает сообщение с намерением изменить карму
// автора исходного сообщения на delta.
//
// Порядок важен: throttle стоит до любых мутаций, подавленная попытка
// не меняет ни карму, ни аудит. Самонаправленные изменения игнорируются
// молча — это анти-абьюз, а не ошибка.
func (h *Handler) HandleChange(ctx context.Context, env *filters.Env, delta int) {
	if !h.throttle.Allow(env.Actor.TGID, middleware.ClassKarma) {
		h.reply(env.Msg, "Вы слишком часто меняете карму")
		return
	}

	t := filters.ExtractTarget(env.Msg, false)
	if t == nil {
		return
	}

	target, err := h.users.ResolveTarget(ctx, t.User, t.Username, env.Actor.TGID, env.Chat.TGID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"actor_tg_id": env.Actor.TGID,
			"chat_tg_id":  env.Chat.TGID,
		}).Info("Изменение кармы без разрешимой цели")
		return
	}

	if !users.CanChangeKarma(target, env.Actor) {
		log.WithField("user_id", env.Actor.TGID).Info("Пользователь пытается изменить карму самому себе")
		return
	}

	uk, power, err := h.service.ChangeOrCreate(ctx, target.TGID, env.Chat.TGID, env.Actor.TGID, delta)
	if err != nil {
		if errors.Is(err, common.ErrSubZeroKarma) {
			h.reply(env.Msg, "У Вас слишком мало кармы для этого")
			return
		}
		log.WithError(err).Error("Ошибка изменения кармы")
		return
	}

	h.reply(env.Msg, fmt.Sprintf(
		"Вы %s карму %s до %s (%+.1f)",
		howChange[delta],
		common.Bold(target.FullName()),
		common.Bold(fmt.Sprintf("%d", uk.Karma)),
		power*float64(delta),
	))

	log.WithFields(log.Fields{
		"user":        env.Actor.TGID,
		"target_user": target.TGID,
		"chat_id":     env.Chat.TGID,
		"delta":       delta,
	}).Info("Карма изменена")
}

// HandleShow — команда !карма. Показывает карму отправителя в этом чате.
func (h *Handler) HandleShow(ctx context.Context, env *filters.Env) {
	value, err := h.service.Karma(ctx, env.Actor.TGID, env.Chat.TGID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения кармы")
		h.reply(env.Msg, "Ошибка получения кармы")
		return
	}
	h.reply(env.Msg, fmt.Sprintf("Твоя карма в этом чате: %s", common.Bold(fmt.Sprintf("%d", value))))
}

func (h *Handler) reply(to *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(to.Chat.ID, text)
	msg.ReplyToMessageID = to.MessageID
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", to.Chat.ID).Error("Ошибка отправки сообщения")
	}
}
