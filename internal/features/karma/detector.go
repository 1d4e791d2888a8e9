// Package karma — detector.go определяет, несёт ли сообщение намерение
// изменить карму (+1 или -1). Срабатывает только на ответ (reply):
// цель — автор исходного сообщения.
package karma

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var plusTriggers = map[string]struct{}{
	"+":         {},
	"+1":        {},
	"++":        {},
	"спасибо":   {},
	"спс":       {},
	"благодарю": {},
	"thanks":    {},
	"thx":       {},
	"👍":         {},
}

var minusTriggers = map[string]struct{}{
	"-":  {},
	"-1": {},
	"--": {},
	"👎":  {},
}

// Стикеры с устоявшимся значением. Ключ — FileUniqueID.
var stickerDeltas = map[string]int{
	"AgADAgADf3BGHA": +1, // классический thumbs up
	"AgADAwADf3BGHA": -1, // thumbs down
	"AgADBAADb3BGHA": +1,
}

// DetectChange возвращает дельту кармы, которую несёт сообщение.
// Регистр не важен, пунктуация в конце допускается.
func DetectChange(msg *tgbotapi.Message) (int, bool) {
	if msg == nil || msg.ReplyToMessage == nil {
		return 0, false
	}

	if msg.Sticker != nil {
		delta, ok := stickerDeltas[msg.Sticker.FileUniqueID]
		return delta, ok
	}

	cleaned := strings.ToLower(strings.TrimSpace(msg.Text))
	cleaned = strings.TrimRight(cleaned, "!.,;:)")
	if cleaned == "" {
		return 0, false
	}
	if _, ok := plusTriggers[cleaned]; ok {
		return +1, true
	}
	if _, ok := minusTriggers[cleaned]; ok {
		return -1, true
	}
	return 0, false
}
