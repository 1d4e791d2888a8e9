// Package filters содержит предикаты маршрутизации — чистые функции
// над входящим сообщением и его контекстом. Роутер проверяет предикаты
// маршрута по порядку; срабатывает первый маршрут, у которого совпали все.
package filters

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"karmabot/internal/features/users"
)

// Env — контекст одного входящего сообщения после предварительного
// разрешения актора и чата. Передаётся каждому предикату и обработчику.
type Env struct {
	Msg   *tgbotapi.Message
	Actor *users.User
	Chat  *users.Chat

	// Разобранная команда: "" если сообщение не похоже на команду
	Command string
	// Хвост после команды, без изменений ("30m спам")
	Args string
}

// Predicate — условие срабатывания маршрута.
type Predicate func(ctx context.Context, env *Env) bool

// Target — цель команды: автор reply либо @mention/text_mention из текста.
type Target struct {
	User     *tgbotapi.User // nil, если известен только username
	Username string
}

// CommandPrefixes — допустимые префиксы команд.
var CommandPrefixes = []string{"!", "/", "."}

// ParseCommand разбирает текст на команду и хвост-аргументы.
// Суффикс @botname отрезается ("/report@karma_bot" → "report").
func ParseCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range CommandPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", ""
	}

	head, tail, _ := strings.Cut(strings.TrimSpace(text), " ")
	if head == "" {
		return "", ""
	}
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(tail)
}

// Commands срабатывает, если команда сообщения входит в список.
func Commands(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return func(_ context.Context, env *Env) bool {
		if env.Command == "" {
			return false
		}
		_, ok := set[env.Command]
		return ok
	}
}

// IsGroup срабатывает в группах и супергруппах.
func IsGroup(_ context.Context, env *Env) bool {
	return env.Msg.Chat != nil && (env.Msg.Chat.IsGroup() || env.Msg.Chat.IsSuperGroup())
}

// IsPrivate срабатывает в личных сообщениях.
func IsPrivate(_ context.Context, env *Env) bool {
	return env.Msg.Chat != nil && env.Msg.Chat.IsPrivate()
}

// IsReply срабатывает, если сообщение является ответом.
func IsReply(_ context.Context, env *Env) bool {
	return env.Msg.ReplyToMessage != nil
}

// HasTarget срабатывает, если у сообщения есть разрешимая цель
// (автор reply или упоминание), отличная от самого отправителя.
func HasTarget(_ context.Context, env *Env) bool {
	return ExtractTarget(env.Msg, false) != nil
}

// HasTargetOrSelf — как HasTarget, но без цели подставляется сам отправитель.
func HasTargetOrSelf(_ context.Context, env *Env) bool {
	return ExtractTarget(env.Msg, true) != nil
}

// ExtractTarget извлекает цель команды из сообщения.
// Приоритет: автор reply → text_mention → @mention (только username).
// При allowSelf=true отсутствие цели означает «сам отправитель».
func ExtractTarget(msg *tgbotapi.Message, allowSelf bool) *Target {
	if msg == nil {
		return nil
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return &Target{User: msg.ReplyToMessage.From}
	}
	for _, entity := range msg.Entities {
		switch entity.Type {
		case "text_mention":
			if entity.User != nil {
				return &Target{User: entity.User}
			}
		case "mention":
			username := extractEntity(msg.Text, entity)
			username = strings.TrimPrefix(username, "@")
			if username != "" {
				return &Target{Username: username}
			}
		}
	}
	if allowSelf && msg.From != nil {
		return &Target{User: msg.From}
	}
	return nil
}

// extractEntity вырезает фрагмент текста по offset/length сущности.
// Telegram считает оффсеты в UTF-16 code units.
func extractEntity(text string, entity tgbotapi.MessageEntity) string {
	utf16Text := utf16Encode(text)
	if entity.Offset < 0 || entity.Offset+entity.Length > len(utf16Text) {
		return ""
	}
	return utf16Decode(utf16Text[entity.Offset : entity.Offset+entity.Length])
}

func utf16Encode(s string) []rune {
	// руны, занимающие две UTF-16 единицы, дублируем заполнителем,
	// чтобы индексация по code units оставалась честной
	var out []rune
	for _, r := range s {
		out = append(out, r)
		if r > 0xFFFF {
			out = append(out, -1)
		}
	}
	return out
}

func utf16Decode(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		if r >= 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
