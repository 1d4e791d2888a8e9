package karma

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func replyMsg(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:           text,
		ReplyToMessage: &tgbotapi.Message{From: &tgbotapi.User{ID: 100}},
	}
}

func TestDetectChangeText(t *testing.T) {
	cases := []struct {
		text  string
		delta int
		ok    bool
	}{
		{"+", +1, true},
		{"+1", +1, true},
		{"++", +1, true},
		{"спасибо", +1, true},
		{"Спасибо!", +1, true},
		{"СПС", +1, true},
		{"thanks", +1, true},
		{"-", -1, true},
		{"-1", -1, true},
		{"--", -1, true},
		{"привет", 0, false},
		{"+100", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			delta, ok := DetectChange(replyMsg(tc.text))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.delta, delta)
		})
	}
}

func TestDetectChangeRequiresReply(t *testing.T) {
	_, ok := DetectChange(&tgbotapi.Message{Text: "+"})
	assert.False(t, ok)

	_, ok = DetectChange(nil)
	assert.False(t, ok)
}

func TestDetectChangeSticker(t *testing.T) {
	msg := replyMsg("")
	msg.Sticker = &tgbotapi.Sticker{FileUniqueID: "AgADAgADf3BGHA"}
	delta, ok := DetectChange(msg)
	assert.True(t, ok)
	assert.Equal(t, +1, delta)

	msg.Sticker = &tgbotapi.Sticker{FileUniqueID: "AgADAwADf3BGHA"}
	delta, ok = DetectChange(msg)
	assert.True(t, ok)
	assert.Equal(t, -1, delta)

	msg.Sticker = &tgbotapi.Sticker{FileUniqueID: "неизвестный"}
	_, ok = DetectChange(msg)
	assert.False(t, ok)
}
