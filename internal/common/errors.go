// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Сервисы возвращают эти ошибки, а обработчики по errors.Is решают,
// что ответить в чат (или промолчать).
package common

import (
	"errors"
	"fmt"
)

// Ошибки кармы
var (
	// ErrSubZeroKarma — декремент опустил бы карму цели ниже минимума
	ErrSubZeroKarma = errors.New("карма не может опуститься ниже минимума")
	// ErrSelfKarma — попытка изменить карму самому себе
	ErrSelfKarma = errors.New("нельзя менять карму самому себе")
)

// Ошибки разрешения цели
var (
	// ErrNoTargetUserID — у цели нет telegram id (пересланное/анонимное сообщение)
	ErrNoTargetUserID = errors.New("у цели нет telegram id")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки модерации
var (
	// ErrPlatformCall — Telegram отклонил restrict/kick; действие не записано в аудит
	ErrPlatformCall = errors.New("telegram отклонил действие модерации")
)

// Ошибки суперпользователя
var (
	// ErrNotSuperuser — пользователь не входит в список SUPERUSER_IDS
	ErrNotSuperuser = errors.New("нет прав суперпользователя")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrNotElevated — нет активной сессии, нужен /login
	ErrNotElevated = errors.New("нужна авторизация через /login")
)

// DurationError — не удалось разобрать текст длительности.
// Хранит исходный фрагмент, чтобы показать его пользователю.
type DurationError struct {
	Text string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("не могу распознать время %q", e.Text)
}
