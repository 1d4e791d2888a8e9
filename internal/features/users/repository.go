// Package users — repository.go отвечает за все операции с таблицами users и chats.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"karmabot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// UpsertUser создаёт пользователя или обновляет его имя/username.
// На конфликте по tg_id обновляются только отображаемые поля.
func (r *Repository) UpsertUser(ctx context.Context, tgID int64, username, firstName, lastName string) (*User, error) {
	query := `
		INSERT INTO users (tg_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tg_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING id, tg_id, username, first_name, last_name, created_at, updated_at
	`
	var u User
	err := r.db.QueryRow(ctx, query, tgID, username, firstName, lastName).Scan(
		&u.ID, &u.TGID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания/обновления пользователя: %w", err)
	}
	return &u, nil
}

// GetByTGID возвращает пользователя по его Telegram id.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) GetByTGID(ctx context.Context, tgID int64) (*User, error) {
	query := `
		SELECT id, tg_id, username, first_name, last_name, created_at, updated_at
		FROM users
		WHERE tg_id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, tgID).Scan(
		&u.ID, &u.TGID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tg_id=%d: %w", tgID, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (tg_id=%d): %w", tgID, err)
	}
	return &u, nil
}

// GetByUsername ищет пользователя по @username (без @), без учёта регистра.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, tg_id, username, first_name, last_name, created_at, updated_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	var u User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.TGID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("username=%s: %w", username, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (username=%s): %w", username, err)
	}
	return &u, nil
}

// UpsertChat создаёт запись чата или обновляет его название.
func (r *Repository) UpsertChat(ctx context.Context, tgID int64, title, chatType string) (*Chat, error) {
	query := `
		INSERT INTO chats (tg_id, title, chat_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (tg_id) DO UPDATE
		SET title = EXCLUDED.title, chat_type = EXCLUDED.chat_type
		RETURNING id, tg_id, title, chat_type, created_at
	`
	var c Chat
	err := r.db.QueryRow(ctx, query, tgID, title, chatType).Scan(
		&c.ID, &c.TGID, &c.Title, &c.ChatType, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания/обновления чата: %w", err)
	}
	return &c, nil
}
