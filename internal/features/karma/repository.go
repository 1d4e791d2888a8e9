// Package karma — repository.go выполняет операции с таблицей user_karma.
package karma

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей user_karma.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий кармы.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get возвращает запись кармы для пары (user, chat).
// Если записи нет — (nil, false, nil): отсутствие записи не ошибка.
func (r *Repository) Get(ctx context.Context, userTGID, chatTGID int64) (*UserKarma, bool, error) {
	query := `
		SELECT id, user_tg_id, chat_tg_id, karma, created_at, updated_at
		FROM user_karma
		WHERE user_tg_id = $1 AND chat_tg_id = $2
	`
	var uk UserKarma
	err := r.db.QueryRow(ctx, query, userTGID, chatTGID).Scan(
		&uk.ID, &uk.UserTGID, &uk.ChatTGID, &uk.Karma, &uk.CreatedAt, &uk.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка чтения кармы: %w", err)
	}
	return &uk, true, nil
}

// Set создаёт или перезаписывает значение кармы для пары (user, chat).
// Вызывается только под per-key блокировкой в сервисе.
func (r *Repository) Set(ctx context.Context, userTGID, chatTGID int64, value int) (*UserKarma, error) {
	query := `
		INSERT INTO user_karma (user_tg_id, chat_tg_id, karma)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_tg_id, chat_tg_id) DO UPDATE
		SET karma = EXCLUDED.karma, updated_at = NOW()
		RETURNING id, user_tg_id, chat_tg_id, karma, created_at, updated_at
	`
	var uk UserKarma
	err := r.db.QueryRow(ctx, query, userTGID, chatTGID, value).Scan(
		&uk.ID, &uk.UserTGID, &uk.ChatTGID, &uk.Karma, &uk.CreatedAt, &uk.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи кармы: %w", err)
	}
	return &uk, nil
}
