// Package moderation — repository.go выполняет операции с таблицей moderator_events.
// Таблица append-only: записи создаются и читаются, но никогда не меняются.
package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей moderator_events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий аудита модерации.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveNewAction записывает выполненное модерационное действие.
func (r *Repository) SaveNewAction(ctx context.Context, ev *ModeratorEvent) error {
	query := `
		INSERT INTO moderator_events (moderator_tg_id, target_tg_id, chat_tg_id, kind, duration_seconds, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	var durationSeconds *int64
	if ev.Duration != nil {
		s := int64(ev.Duration.Seconds())
		durationSeconds = &s
	}
	_, err := r.db.Exec(ctx, query,
		ev.ModeratorTGID, ev.TargetTGID, ev.ChatTGID, ev.Kind, durationSeconds, ev.Comment,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи аудита модерации: %w", err)
	}
	return nil
}

// ListForUser возвращает историю модерационных действий над пользователем
// в чате, свежие первыми. Используется карточкой !info.
func (r *Repository) ListForUser(ctx context.Context, targetTGID, chatTGID int64, limit int) ([]*ModeratorEvent, error) {
	query := `
		SELECT id, moderator_tg_id, target_tg_id, chat_tg_id, kind, duration_seconds, comment, created_at
		FROM moderator_events
		WHERE target_tg_id = $1 AND chat_tg_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, targetTGID, chatTGID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудита модерации: %w", err)
	}
	defer rows.Close()

	var out []*ModeratorEvent
	for rows.Next() {
		var ev ModeratorEvent
		var durationSeconds *int64
		if err := rows.Scan(
			&ev.ID, &ev.ModeratorTGID, &ev.TargetTGID, &ev.ChatTGID,
			&ev.Kind, &durationSeconds, &ev.Comment, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		if durationSeconds != nil {
			d := time.Duration(*durationSeconds) * time.Second
			ev.Duration = &d
		}
		out = append(out, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}
