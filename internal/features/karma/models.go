// Package karma реализует систему репутации (кармы) per-(user, chat).
// models.go описывает структуру для таблицы user_karma.
package karma

import "time"

// UserKarma хранит карму пользователя в конкретном чате.
// Меняется только на ±1 за событие и никогда не опускается ниже минимума.
type UserKarma struct {
	ID        int64     `db:"id"`
	UserTGID  int64     `db:"user_tg_id"`
	ChatTGID  int64     `db:"chat_tg_id"`
	Karma     int       `db:"karma"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
