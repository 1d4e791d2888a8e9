// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, HTML-разметка для Telegram.
package common

import (
	"fmt"
	"html"
)

// PluralizeRu возвращает правильную форму слова для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeRu(1, "день", "дня", "дней")  → "день"
//	PluralizeRu(3, "день", "дня", "дней")  → "дня"
//	PluralizeRu(11, "день", "дня", "дней") → "дней"
func PluralizeRu(n int64, one, few, many string) string {
	absN := n
	if absN < 0 {
		absN = -absN
	}
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeDays возвращает правильную форму слова «день».
func PluralizeDays(n int64) string {
	return PluralizeRu(n, "день", "дня", "дней")
}

// PluralizeHours возвращает правильную форму слова «час».
func PluralizeHours(n int64) string {
	return PluralizeRu(n, "час", "часа", "часов")
}

// PluralizeMinutes возвращает правильную форму слова «минута».
func PluralizeMinutes(n int64) string {
	return PluralizeRu(n, "минута", "минуты", "минут")
}

// PluralizeSecondsRu возвращает правильную форму слова «секунда».
func PluralizeSecondsRu(n int64) string {
	return PluralizeRu(n, "секунда", "секунды", "секунд")
}

// EscapeHTML экранирует текст для parse_mode=HTML.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Bold оборачивает текст в <b>, предварительно экранируя его.
func Bold(s string) string {
	return "<b>" + EscapeHTML(s) + "</b>"
}

// Pre оборачивает текст в <pre> (моноширинный блок), предварительно экранируя.
func Pre(s string) string {
	return PreRaw(EscapeHTML(s))
}

// PreRaw оборачивает в <pre> уже экранированный текст.
// Для сырого текста используйте Pre.
func PreRaw(s string) string {
	return "<pre>" + s + "</pre>"
}

// MentionHTML создаёт кликабельное упоминание пользователя по tg id.
func MentionHTML(tgID int64, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, tgID, EscapeHTML(name))
}

// HiddenMention создаёт невидимое упоминание: ссылка на пользователя
// с символом word-joiner вместо текста. Уведомление приходит,
// видимого пинга в чате нет.
func HiddenMention(tgID int64) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">&#8288;</a>`, tgID)
}
