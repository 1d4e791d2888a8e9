package filters

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		cmd  string
		args string
	}{
		{"!ro 30m спам", "ro", "30m спам"},
		{"/report", "report", ""},
		{".ban 1d", "ban", "1d"},
		{"/report@karma_bot жалоба", "report", "жалоба"},
		{"!BAN", "ban", ""},
		{"  /dump  ", "dump", ""},
		{"привет", "", ""},
		{"+1", "", ""}, // карма-реакция, не команда
		{"!", "", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			cmd, args := ParseCommand(tc.in)
			assert.Equal(t, tc.cmd, cmd)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestExtractTargetFromReply(t *testing.T) {
	msg := &tgbotapi.Message{
		From:           &tgbotapi.User{ID: 1},
		ReplyToMessage: &tgbotapi.Message{From: &tgbotapi.User{ID: 100, FirstName: "Цель"}},
	}

	target := ExtractTarget(msg, false)
	require.NotNil(t, target)
	require.NotNil(t, target.User)
	assert.Equal(t, int64(100), target.User.ID)
}

func TestExtractTargetFromTextMention(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Text: "!info Вася",
		Entities: []tgbotapi.MessageEntity{
			{Type: "text_mention", Offset: 6, Length: 4, User: &tgbotapi.User{ID: 100}},
		},
	}

	target := ExtractTarget(msg, false)
	require.NotNil(t, target)
	require.NotNil(t, target.User)
	assert.Equal(t, int64(100), target.User.ID)
}

func TestExtractTargetFromMentionUsernameOnly(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Text: "!info @vasya",
		Entities: []tgbotapi.MessageEntity{
			{Type: "mention", Offset: 6, Length: 6},
		},
	}

	target := ExtractTarget(msg, false)
	require.NotNil(t, target)
	assert.Nil(t, target.User)
	assert.Equal(t, "vasya", target.Username)
}

// Оффсеты сущностей Telegram считает в UTF-16 единицах:
// кириллица перед упоминанием не должна ломать вырезание.
func TestExtractTargetMentionAfterCyrillic(t *testing.T) {
	text := "инфо про @vasya"
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "mention", Offset: 9, Length: 6},
		},
	}

	target := ExtractTarget(msg, false)
	require.NotNil(t, target)
	assert.Equal(t, "vasya", target.Username)
}

func TestExtractTargetNone(t *testing.T) {
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Text: "!info"}
	assert.Nil(t, ExtractTarget(msg, false))
	assert.Nil(t, ExtractTarget(nil, true))
}

func TestExtractTargetSelfFallback(t *testing.T) {
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Text: "!info"}

	target := ExtractTarget(msg, true)
	require.NotNil(t, target)
	require.NotNil(t, target.User)
	assert.Equal(t, int64(1), target.User.ID)
}

func TestChatTypePredicates(t *testing.T) {
	group := &Env{Msg: &tgbotapi.Message{Chat: &tgbotapi.Chat{Type: "group"}}}
	super := &Env{Msg: &tgbotapi.Message{Chat: &tgbotapi.Chat{Type: "supergroup"}}}
	private := &Env{Msg: &tgbotapi.Message{Chat: &tgbotapi.Chat{Type: "private"}}}

	assert.True(t, IsGroup(nil, group))
	assert.True(t, IsGroup(nil, super))
	assert.False(t, IsGroup(nil, private))
	assert.True(t, IsPrivate(nil, private))
	assert.False(t, IsPrivate(nil, group))
}

func TestCommandsPredicate(t *testing.T) {
	pred := Commands("ro", "mute")

	assert.True(t, pred(nil, &Env{Command: "ro"}))
	assert.True(t, pred(nil, &Env{Command: "mute"}))
	assert.False(t, pred(nil, &Env{Command: "ban"}))
	assert.False(t, pred(nil, &Env{Command: ""}))
}
