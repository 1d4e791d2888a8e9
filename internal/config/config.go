// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
// Загружается один раз на старте и дальше только читается.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Список суперпользователей (CSV из tg id)
	SuperuserIDsRaw string  `envconfig:"SUPERUSER_IDS" required:"true"`
	SuperuserIDs    []int64 `envconfig:"-"` // заполним вручную
	// Чат, куда уходят дампы базы и логи
	DumpChatID int64 `envconfig:"DUMP_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"karma_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Файл, в который дублируются логи (его же отправляет logship)
	LogFilePath string `envconfig:"LOG_FILE_PATH" default:"logs/bot.log"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Superuser ---
	// Argon2id-хеш пароля для /login (scripts/generate_hash.go)
	SuperuserPasswordHash string `envconfig:"SUPERUSER_PASSWORD_HASH" required:"true"`

	// --- Karma ---
	// Ниже KarmaFloor карма не опускается: декремент отклоняется, а не обрезается
	KarmaFloor int `envconfig:"KARMA_FLOOR" default:"-100"`
	// Стартовое значение при первом событии кармы для пары (user, chat)
	KarmaBase int `envconfig:"KARMA_BASE" default:"0"`

	// --- Throttle ---
	KarmaThrottle  time.Duration `envconfig:"KARMA_THROTTLE" default:"30s"`
	ReportThrottle time.Duration `envconfig:"REPORT_THROTTLE" default:"5s"`

	// --- Moderation ---
	// TTL кэша списков администраторов чатов
	AdminCacheTTL time.Duration `envconfig:"ADMIN_CACHE_TTL" default:"5m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if len(c.SuperuserIDs) == 0 {
		return fmt.Errorf("SUPERUSER_IDS не задан")
	}
	if c.DumpChatID == 0 {
		return fmt.Errorf("DUMP_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.KarmaBase < c.KarmaFloor {
		return fmt.Errorf("KARMA_BASE не может быть ниже KARMA_FLOOR")
	}
	if c.KarmaThrottle <= 0 || c.ReportThrottle <= 0 {
		return fmt.Errorf("интервалы throttle должны быть > 0")
	}
	return nil
}

// IsSuperuser проверяет членство в списке суперпользователей.
func (c *Config) IsSuperuser(tgID int64) bool {
	for _, id := range c.SuperuserIDs {
		if id == tgID {
			return true
		}
	}
	return false
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.SuperuserIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("SUPERUSER_IDS parse: %w", err)
	}
	cfg.SuperuserIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
