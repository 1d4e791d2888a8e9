// Package users управляет локальными записями пользователей и чатов.
// models.go описывает структуры для таблиц users и chats.
package users

import "time"

// User представляет пользователя, которого бот видел хотя бы раз.
// Запись создаётся лениво при первом наблюдаемом взаимодействии.
// Идентичность (TGID) неизменна, отображаемое имя обновляется.
type User struct {
	ID        int64     `db:"id"`         // Автоинкрементный ID записи в БД
	TGID      int64     `db:"tg_id"`      // Telegram user ID (уникальный)
	Username  string    `db:"username"`   // @username (может быть пустым)
	FirstName string    `db:"first_name"` // Имя пользователя
	LastName  string    `db:"last_name"`  // Фамилия (может быть пустой)
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FullName возвращает имя + фамилию.
func (u *User) FullName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username — возвращает его, иначе — имя + фамилию.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FullName()
}

// Chat представляет групповой чат, в котором бот видел сообщения.
// Создаётся лениво при первом сообщении в чате.
type Chat struct {
	ID        int64     `db:"id"`
	TGID      int64     `db:"tg_id"` // Telegram chat ID (уникальный)
	Title     string    `db:"title"`
	ChatType  string    `db:"chat_type"` // private / group / supergroup
	CreatedAt time.Time `db:"created_at"`
}
