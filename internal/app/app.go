// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"karmabot/internal/bot"
	"karmabot/internal/bot/middleware"
	"karmabot/internal/config"
	"karmabot/internal/db/postgres"
	"karmabot/internal/features/karma"
	"karmabot/internal/features/moderation"
	"karmabot/internal/features/superuser"
	"karmabot/internal/features/users"
	"karmabot/internal/jobs"
	"karmabot/internal/logship"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	platform := bot.NewPlatform(botAPI)

	// === 3. Репозитории ===
	userRepo := users.NewRepository(pool)
	karmaRepo := karma.NewRepository(pool)
	eventRepo := moderation.NewRepository(pool)
	dumpRepo := superuser.NewRepository(pool)

	// === 4. Сервисы ===
	userService := users.NewService(userRepo)
	karmaService := karma.NewService(karmaRepo, cfg)
	modService := moderation.NewService(platform, eventRepo)
	suService := superuser.NewService(cfg)
	gate := moderation.NewGate(platform, cfg.AdminCacheTTL)
	shipper := logship.NewShipper(platform, cfg.LogFilePath, cfg.DumpChatID)

	// === 5. Throttle ===
	throttle := middleware.NewThrottle(map[middleware.ActionClass]time.Duration{
		middleware.ClassKarma:  cfg.KarmaThrottle,
		middleware.ClassReport: cfg.ReportThrottle,
	})

	// === 6. Обработчики ===
	karmaHandler := karma.NewHandler(karmaService, userService, throttle, botAPI)
	modHandler := moderation.NewHandler(botAPI, modService, gate, userService, karmaService, throttle)
	suHandler := superuser.NewHandler(botAPI, suService, dumpRepo, shipper, cfg)

	// === 7. Собираем бота ===
	b := bot.New(botAPI, cfg, userService, karmaHandler, modHandler, suHandler, gate, throttle)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(shipper)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	return postgres.Migrate(ctx, pool, []postgres.Migration{
		{Version: 1, SQL: migration001Users},
		{Version: 2, SQL: migration002Chats},
		{Version: 3, SQL: migration003UserKarma},
		{Version: 4, SQL: migration004ModeratorEvents},
	})
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    tg_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255) DEFAULT '',
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    last_name VARCHAR(255) DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_tg_id ON users(tg_id);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

var migration002Chats = `
CREATE TABLE IF NOT EXISTS chats (
    id BIGSERIAL PRIMARY KEY,
    tg_id BIGINT UNIQUE NOT NULL,
    title VARCHAR(255) DEFAULT '',
    chat_type VARCHAR(32) DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chats_tg_id ON chats(tg_id);
`

var migration003UserKarma = `
CREATE TABLE IF NOT EXISTS user_karma (
    id BIGSERIAL PRIMARY KEY,
    user_tg_id BIGINT NOT NULL REFERENCES users(tg_id),
    chat_tg_id BIGINT NOT NULL REFERENCES chats(tg_id),
    karma INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW(),
    UNIQUE (user_tg_id, chat_tg_id)
);
CREATE INDEX IF NOT EXISTS idx_user_karma_chat ON user_karma(chat_tg_id);
`

var migration004ModeratorEvents = `
CREATE TABLE IF NOT EXISTS moderator_events (
    id BIGSERIAL PRIMARY KEY,
    moderator_tg_id BIGINT NOT NULL REFERENCES users(tg_id),
    target_tg_id BIGINT NOT NULL REFERENCES users(tg_id),
    chat_tg_id BIGINT NOT NULL REFERENCES chats(tg_id),
    kind VARCHAR(16) NOT NULL,
    duration_seconds BIGINT,
    comment TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_moderator_events_target ON moderator_events(target_tg_id, chat_tg_id);
CREATE INDEX IF NOT EXISTS idx_moderator_events_created_at ON moderator_events(created_at DESC);
`
