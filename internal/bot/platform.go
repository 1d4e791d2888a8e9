// Package bot — platform.go адаптирует Bot API под узкие интерфейсы,
// которые потребляют исполнитель модерации, гейт прав и отправитель логов.
package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Platform реализует moderation.Platform, moderation.AdminSource
// и logship.Sender поверх *tgbotapi.BotAPI.
type Platform struct {
	api *tgbotapi.BotAPI
}

// NewPlatform создаёт адаптер платформы.
func NewPlatform(api *tgbotapi.BotAPI) *Platform {
	return &Platform{api: api}
}

// Restrict запрещает пользователю писать в чат до until.
func (p *Platform) Restrict(_ context.Context, chatTGID, userTGID int64, until time.Time) error {
	_, err := p.api.Request(tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatTGID,
			UserID: userTGID,
		},
		UntilDate: until.Unix(),
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages: false,
		},
	})
	return err
}

// Ban удаляет пользователя из чата до until.
func (p *Platform) Ban(_ context.Context, chatTGID, userTGID int64, until time.Time) error {
	_, err := p.api.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatTGID,
			UserID: userTGID,
		},
		UntilDate: until.Unix(),
	})
	return err
}

// Administrators возвращает администраторов чата.
func (p *Platform) Administrators(_ context.Context, chatTGID int64) ([]tgbotapi.ChatMember, error) {
	return p.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatTGID},
	})
}

// BotMember возвращает членство самого бота в чате (его права).
func (p *Platform) BotMember(_ context.Context, chatTGID int64) (tgbotapi.ChatMember, error) {
	return p.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatTGID,
			UserID: p.api.Self.ID,
		},
	})
}

// SendChunk отправляет кусок лога без звука, в HTML-разметке.
func (p *Platform) SendChunk(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = true
	_, err := p.api.Send(msg)
	return err
}
