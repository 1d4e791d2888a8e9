// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go запускает polling и собирает таблицу маршрутов.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot/filters"
	"karmabot/internal/bot/middleware"
	"karmabot/internal/config"
	"karmabot/internal/features/karma"
	"karmabot/internal/features/moderation"
	"karmabot/internal/features/superuser"
	"karmabot/internal/features/users"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	router   *Router
	throttle *middleware.Throttle

	usersService *users.Service

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота и регистрирует маршруты.
// Порядок регистрации значим: первый совпавший маршрут выигрывает,
// фолбэки про отсутствие прав стоят после полных модераторских маршрутов.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	usersService *users.Service,
	karmaHandler *karma.Handler,
	modHandler *moderation.Handler,
	suHandler *superuser.Handler,
	gate *moderation.Gate,
	throttle *middleware.Throttle,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	b := &Bot{
		api:          api,
		cfg:          cfg,
		router:       NewRouter(),
		throttle:     throttle,
		usersService: usersService,
		inflight:     make(chan struct{}, maxInFlight),
	}

	fromSuperuser := func(_ context.Context, env *filters.Env) bool {
		return cfg.IsSuperuser(env.Actor.TGID)
	}
	userCanRestrict := func(ctx context.Context, env *filters.Env) bool {
		return gate.UserCanRestrict(ctx, env.Chat.TGID, env.Actor.TGID)
	}
	botCanRestrict := func(ctx context.Context, env *filters.Env) bool {
		return gate.BotCanRestrict(ctx, env.Chat.TGID)
	}
	botCanDelete := func(ctx context.Context, env *filters.Env) bool {
		return gate.BotCanDelete(ctx, env.Chat.TGID)
	}
	karmaIntent := func(_ context.Context, env *filters.Env) bool {
		_, ok := karma.DetectChange(env.Msg)
		return ok
	}

	r := b.router

	// --- суперпользователь ---
	r.Handle("su-login", suHandler.HandleLogin,
		fromSuperuser, filters.Commands("login"), filters.IsPrivate)
	r.Handle("su-exception", suHandler.HandleException,
		fromSuperuser, filters.Commands("exception"))
	r.Handle("su-leave", suHandler.HandleLeaveChat,
		fromSuperuser, filters.Commands("get_out"))
	r.Handle("su-dump", suHandler.HandleDump,
		fromSuperuser, filters.Commands("dump"))
	r.Handle("su-logs", suHandler.HandleShipLogs,
		fromSuperuser, filters.Commands("logs"))

	// --- жалобы ---
	r.Handle("report", modHandler.HandleReport,
		filters.Commands("report", "admin"), filters.IsGroup, filters.IsReply)

	// --- модерация: полные маршруты ---
	r.Handle("mute", modHandler.HandleMute,
		filters.Commands("ro", "mute"), filters.IsGroup, filters.HasTarget,
		userCanRestrict, botCanRestrict)
	r.Handle("ban", modHandler.HandleBan,
		filters.Commands("ban"), filters.IsGroup, filters.HasTarget,
		userCanRestrict, botCanRestrict)
	r.Handle("warn", modHandler.HandleWarn,
		filters.Commands("w", "warn"), filters.IsGroup, filters.HasTarget,
		userCanRestrict)

	// --- модерация: фолбэки ---
	// сюда попадаем, только если полный маршрут выше не совпал:
	// у актора права есть, у бота нет
	r.Handle("mod-bot-no-rights", modHandler.HandleBotNoRights,
		filters.Commands("ro", "mute", "ban"), filters.IsGroup, filters.HasTarget,
		userCanRestrict)
	// у актора прав нет — молча удаляем команду
	r.Handle("mod-user-no-rights", modHandler.HandleUserNoRights,
		filters.Commands("ro", "mute", "ban", "w", "warn"), filters.IsGroup,
		botCanDelete)

	// --- карточка пользователя ---
	r.Handle("info", modHandler.HandleInfo,
		filters.Commands("info"), filters.IsGroup, filters.HasTargetOrSelf)

	// --- карма ---
	r.Handle("karma-show", karmaHandler.HandleShow,
		filters.Commands("карма", "karma"), filters.IsGroup)
	r.Handle("karma-change", func(ctx context.Context, env *filters.Env) {
		delta, ok := karma.DetectChange(env.Msg)
		if !ok {
			return
		}
		karmaHandler.HandleChange(ctx, env, delta)
	}, filters.IsGroup, karmaIntent)

	// --- справка ---
	r.Handle("help", func(_ context.Context, env *filters.Env) {
		b.sendMessage(env.Msg.Chat.ID,
			"Карма: ответьте «+» или «-» на сообщение. Модераторам: !ro, !ban, !warn, !info. Жалоба: /report")
	}, filters.Commands("start", "help"))

	return b
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
// Каждый апдейт — независимая задача: стартовав, она доходит
// до конца или до собственной точки отказа, отмены нет.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	if message.From.IsBot {
		return
	}

	middleware.LogMessage(message)

	// актор и чат создаются лениво при первом появлении
	actor, err := b.usersService.GetOrCreateFromTG(ctx, message.From)
	if err != nil {
		log.WithError(err).WithField("user_id", message.From.ID).Warn("Не удалось создать пользователя")
		return
	}
	chat, err := b.usersService.GetOrCreateChat(ctx, message.Chat)
	if err != nil {
		log.WithError(err).WithField("chat_id", message.Chat.ID).Warn("Не удалось создать чат")
		return
	}

	cmd, args := filters.ParseCommand(message.Text)

	env := &filters.Env{
		Msg:     message,
		Actor:   actor,
		Chat:    chat,
		Command: cmd,
		Args:    args,
	}

	if !b.router.Dispatch(ctx, env) {
		log.WithFields(log.Fields{
			"chat_id": chat.TGID,
			"command": cmd,
		}).Debug("Маршрут не найден")
	}
}

// Close освобождает фоновые ресурсы (горутину очистки throttle).
func (b *Bot) Close() {
	b.throttle.Close()
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
