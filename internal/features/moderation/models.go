// Package moderation реализует команды модерации: mute/ban/warn,
// жалобы и карточку пользователя.
// models.go описывает запись аудита модерационных действий.
package moderation

import "time"

// Вид модерационного действия.
const (
	KindMute = "mute"
	KindBan  = "ban"
	KindWarn = "warn"
)

// ModeratorEvent — неизменяемая запись аудита.
// Создаётся один раз на выполненное действие, не обновляется и не удаляется.
type ModeratorEvent struct {
	ID            int64          `db:"id"`
	ModeratorTGID int64          `db:"moderator_tg_id"`
	TargetTGID    int64          `db:"target_tg_id"`
	ChatTGID      int64          `db:"chat_tg_id"`
	Kind          string         `db:"kind"`
	Duration      *time.Duration `db:"duration"` // nil для warn
	Comment       string         `db:"comment"`
	CreatedAt     time.Time      `db:"created_at"`
}
