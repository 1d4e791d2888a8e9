// Package superuser — handlers.go обрабатывает команды суперпользователя:
// /login, /exception, /get_out, /dump, /logs.
// Гейт по списку id проверяется роутером; деструктивные команды
// дополнительно требуют активной сессии.
package superuser

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot/filters"
	"karmabot/internal/common"
	"karmabot/internal/config"
)

// LogShipper — отправка лог-файла в чат дампов (реализуется logship.Shipper).
type LogShipper interface {
	Ship(ctx context.Context) error
}

// Handler обрабатывает команды суперпользователя.
type Handler struct {
	bot     *tgbotapi.BotAPI
	service *Service
	repo    *Repository
	shipper LogShipper
	cfg     *config.Config
}

// NewHandler создаёт обработчик команд суперпользователя.
func NewHandler(bot *tgbotapi.BotAPI, service *Service, repo *Repository, shipper LogShipper, cfg *config.Config) *Handler {
	return &Handler{bot: bot, service: service, repo: repo, shipper: shipper, cfg: cfg}
}

// HandleLogin — /login <пароль> в личке. Повышает привилегии на 24 часа.
func (h *Handler) HandleLogin(_ context.Context, env *filters.Env) {
	// сообщение с паролем убираем из истории сразу
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(env.Msg.Chat.ID, env.Msg.MessageID)); err != nil {
			log.WithError(err).Debug("Не удалось удалить сообщение с паролем")
		}
	}()

	password := strings.TrimSpace(env.Args)
	err := h.service.Login(env.Actor.TGID, password)
	switch {
	case err == nil:
		h.send(env.Msg.Chat.ID, "Авторизация успешна, сессия на 24 часа")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.send(env.Msg.Chat.ID, "Слишком много попыток, подождите 1 час")
	default:
		h.send(env.Msg.Chat.ID, "Неверный пароль")
	}
}

// HandleException — /exception: намеренная паника для проверки
// верхнего уровня обработки ошибок. Текст команды уходит в панику.
func (h *Handler) HandleException(_ context.Context, env *filters.Env) {
	panic(env.Msg.Text)
}

// HandleLeaveChat — /get_out: бот покидает чат, в котором получил команду.
func (h *Handler) HandleLeaveChat(_ context.Context, env *filters.Env) {
	if !h.requireSession(env) {
		return
	}
	if _, err := h.bot.Request(tgbotapi.LeaveChatConfig{ChatID: env.Msg.Chat.ID}); err != nil {
		log.WithError(err).WithField("chat_id", env.Msg.Chat.ID).Error("Не удалось покинуть чат")
	}
}

// HandleDump — /dump: выгрузка базы документом в DUMP_CHAT_ID.
func (h *Handler) HandleDump(ctx context.Context, env *filters.Env) {
	if !h.requireSession(env) {
		return
	}

	data, err := h.repo.DumpAll(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка выгрузки базы")
		h.send(env.Msg.Chat.ID, "Не удалось выгрузить базу")
		return
	}

	doc := tgbotapi.NewDocument(h.cfg.DumpChatID, tgbotapi.FileBytes{
		Name:  "karma.dump.txt",
		Bytes: data,
	})
	if _, err := h.bot.Send(doc); err != nil {
		log.WithError(err).Error("Не удалось отправить дамп")
		return
	}
	log.WithField("user_id", env.Actor.TGID).Info("Дамп базы отправлен")
}

// HandleShipLogs — /logs: отправить накопившийся лог-файл сейчас,
// не дожидаясь ночного крона.
func (h *Handler) HandleShipLogs(ctx context.Context, env *filters.Env) {
	if err := h.shipper.Ship(ctx); err != nil {
		log.WithError(err).Error("Ошибка отправки логов")
	}
}

// requireSession проверяет активную сессию для деструктивных команд.
func (h *Handler) requireSession(env *filters.Env) bool {
	if h.service.HasSession(env.Actor.TGID) {
		return true
	}
	h.send(env.Msg.Chat.ID, "Нужна авторизация: /login <пароль> в личке")
	return false
}

func (h *Handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
