package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// previewLimit — сколько рун текста попадает в лог.
const previewLimit = 50

// LogMessage логирует входящее сообщение перед маршрутизацией.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":   message.From.ID,
		"username":  message.From.UserName,
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"text":      truncateText(message.Text, previewLimit),
	}).Debug("Входящее сообщение")
}

// truncateText обрезает текст до limit рун, не разрывая руну посередине.
func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
