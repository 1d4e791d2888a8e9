// Package moderation — handlers.go связывает команды модерации с исполнителем:
// разбор длительности и комментария, разрешение цели, ответы в чат.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot/filters"
	"karmabot/internal/bot/middleware"
	"karmabot/internal/common"
	"karmabot/internal/features/karma"
	"karmabot/internal/features/users"
)

// Messenger — отправка ответов и удаление сообщений
// (реализуется *tgbotapi.BotAPI).
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Resolver — разрешение цели команды в локального пользователя
// (реализуется users.Service).
type Resolver interface {
	ResolveTarget(ctx context.Context, tgUser *tgbotapi.User, username string, actorTGID, chatTGID int64) (*users.User, error)
}

// Handler обрабатывает команды модерации.
type Handler struct {
	bot      Messenger
	service  *Service
	gate     *Gate
	users    Resolver
	karma    *karma.Service
	throttle *middleware.Throttle
}

// NewHandler создаёт обработчик команд модерации.
func NewHandler(
	bot Messenger,
	service *Service,
	gate *Gate,
	resolver Resolver,
	karmaService *karma.Service,
	throttle *middleware.Throttle,
) *Handler {
	return &Handler{
		bot:      bot,
		service:  service,
		gate:     gate,
		users:    resolver,
		karma:    karmaService,
		throttle: throttle,
	}
}

// parseDurationArgs извлекает длительность и комментарий из хвоста команды.
// Пустой хвост — длительность по умолчанию.
func parseDurationArgs(args string) (time.Duration, string, error) {
	durationText, comment := SplitModArgs(args)
	if durationText == "" {
		return DefaultDuration, comment, nil
	}
	d, err := ParseDuration(durationText)
	if err != nil {
		return 0, "", err
	}
	return d, comment, nil
}

// resolveTarget разрешает цель команды в локального пользователя.
func (h *Handler) resolveTarget(ctx context.Context, env *filters.Env, allowSelf bool) (*users.User, error) {
	t := filters.ExtractTarget(env.Msg, allowSelf)
	if t == nil {
		return nil, common.ErrNoTargetUserID
	}
	return h.users.ResolveTarget(ctx, t.User, t.Username, env.Actor.TGID, env.Chat.TGID)
}

// HandleMute — команды !ro и !mute. Разбор до любых платформенных вызовов:
// нечитаемая длительность означает, что ничего не выполнялось.
func (h *Handler) HandleMute(ctx context.Context, env *filters.Env) {
	duration, comment, err := parseDurationArgs(env.Args)
	if err != nil {
		var de *common.DurationError
		if errors.As(err, &de) {
			h.reply(env.Msg, "Не могу распознать время. "+common.EscapeHTML(de.Text))
		}
		return
	}

	target, err := h.resolveTarget(ctx, env, false)
	if err != nil {
		h.reply(env.Msg, "Не могу понять, к кому применить команду")
		return
	}

	if err := h.service.Mute(ctx, env.Chat.TGID, env.Actor.TGID, target.TGID, duration, comment); err != nil {
		// платформенная ошибка терминальна: без аудита и без ответа об успехе
		return
	}

	h.reply(env.Msg, fmt.Sprintf(
		"Пользователь %s сможет <b>только читать</b> сообщения на протяжении %s",
		common.MentionHTML(target.TGID, target.FullName()),
		FormatDuration(duration),
	))
}

// HandleBan — команда !ban.
func (h *Handler) HandleBan(ctx context.Context, env *filters.Env) {
	duration, comment, err := parseDurationArgs(env.Args)
	if err != nil {
		var de *common.DurationError
		if errors.As(err, &de) {
			h.reply(env.Msg, "Не могу распознать время. "+common.EscapeHTML(de.Text))
		}
		return
	}

	target, err := h.resolveTarget(ctx, env, false)
	if err != nil {
		h.reply(env.Msg, "Не могу понять, к кому применить команду")
		return
	}

	if err := h.service.Ban(ctx, env.Chat.TGID, env.Actor.TGID, target.TGID, duration, comment); err != nil {
		return
	}

	text := fmt.Sprintf("Пользователь %s попал в бан этого чата.",
		common.MentionHTML(target.TGID, target.FullName()))
	if duration < ForeverDuration {
		text += " Он сможет вернуться через " + FormatDuration(duration)
	}
	h.reply(env.Msg, text)
}

// HandleWarn — команды !w и !warn: запись в аудит и ответ, без платформенных вызовов.
func (h *Handler) HandleWarn(ctx context.Context, env *filters.Env) {
	// у warn весь хвост — комментарий, длительности нет
	comment := strings.TrimSpace(env.Args)

	target, err := h.resolveTarget(ctx, env, false)
	if err != nil {
		h.reply(env.Msg, "Не могу понять, к кому применить команду")
		return
	}

	if err := h.service.Warn(ctx, env.Chat.TGID, env.Actor.TGID, target.TGID, comment); err != nil {
		log.WithError(err).Error("Ошибка записи предупреждения")
		return
	}

	h.reply(env.Msg, fmt.Sprintf(
		"Пользователь %s получил официальное предупреждение от модератора",
		common.MentionHTML(target.TGID, target.FullName()),
	))
}

// HandleReport — команды /report и !admin: поблагодарить и незаметно
// упомянуть администраторов. Сработавший throttle гасит жалобу молча.
func (h *Handler) HandleReport(ctx context.Context, env *filters.Env) {
	if !h.throttle.Allow(env.Actor.TGID, middleware.ClassReport) {
		return
	}

	log.WithFields(log.Fields{
		"user":    env.Actor.TGID,
		"message": env.Msg.MessageID,
	}).Info("Жалоба на сообщение")

	admins, err := h.gate.AdminsToNotify(ctx, env.Chat.TGID)
	if err != nil {
		log.WithError(err).WithField("chat_id", env.Chat.TGID).Error("Не удалось получить администраторов для жалобы")
		return
	}

	h.reply(env.Msg, "Спасибо за сообщение. Мы обязательно разберёмся. "+HiddenMentions(admins))
}

// HandleInfo — команда !info: карточка пользователя уходит в личку
// запросившему, а команда подчищается из чата в любом случае.
func (h *Handler) HandleInfo(ctx context.Context, env *filters.Env) {
	// удаление команды в defer: выполняется и при успехе, и при отказе лички
	defer h.deleteMessage(env.Msg.Chat.ID, env.Msg.MessageID)

	target, err := h.resolveTarget(ctx, env, true)
	if err != nil {
		return
	}

	karmaValue, err := h.karma.Karma(ctx, target.TGID, env.Chat.TGID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения кармы для !info")
		return
	}

	lines := []string{fmt.Sprintf(
		"Данные на %s (%d):",
		common.MentionHTML(target.TGID, target.FullName()),
		karmaValue,
	)}
	history, err := h.service.History(ctx, target.TGID, env.Chat.TGID)
	if err != nil {
		log.WithError(err).Debug("История модерации недоступна")
	}
	for _, ev := range history {
		line := fmt.Sprintf("%s — %s", ev.CreatedAt.Format("02.01.2006"), ev.Kind)
		if ev.Duration != nil {
			line += " на " + FormatDuration(*ev.Duration)
		}
		if ev.Comment != "" {
			line += ": " + common.EscapeHTML(ev.Comment)
		}
		lines = append(lines, line)
	}

	dm := tgbotapi.NewMessage(env.Actor.TGID, strings.Join(lines, "\n"))
	dm.ParseMode = tgbotapi.ModeHTML
	dm.DisableWebPagePreview = true
	if _, err := h.bot.Send(dm); err != nil {
		// пользователь не начинал диалог с ботом
		h.reply(env.Msg, "Напишите мне в личку /start и повторите команду.")
	}
}

// HandleBotNoRights — модераторская команда при боте без нужных прав:
// просим оператора чата выдать их, само действие не выполняется.
func (h *Handler) HandleBotNoRights(_ context.Context, env *filters.Env) {
	h.reply(env.Msg, "Чтобы я выполнял функции модератора, дайте мне соответствующие права")
}

// HandleUserNoRights — модераторская команда от пользователя без прав:
// сообщение удаляется молча, без ответа.
func (h *Handler) HandleUserNoRights(_ context.Context, env *filters.Env) {
	h.deleteMessage(env.Msg.Chat.ID, env.Msg.MessageID)
}

// deleteMessage удаляет сообщение best-effort: ошибки проглатываются,
// сообщение могло уже исчезнуть или бот мог потерять право удаления.
func (h *Handler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"chat_id":    chatID,
			"message_id": messageID,
		}).Debug("Не удалось удалить сообщение")
	}
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
