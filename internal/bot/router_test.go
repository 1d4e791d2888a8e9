package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"karmabot/internal/bot/filters"
	"karmabot/internal/features/users"
)

func testEnv(command string) *filters.Env {
	return &filters.Env{
		Msg:     &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 200, Type: "group"}},
		Actor:   &users.User{TGID: 1},
		Chat:    &users.Chat{TGID: 200},
		Command: command,
	}
}

func yes(_ context.Context, _ *filters.Env) bool { return true }
func no(_ context.Context, _ *filters.Env) bool  { return false }

func TestRouterFirstMatchWins(t *testing.T) {
	r := NewRouter()
	var fired []string

	r.Handle("first", func(_ context.Context, _ *filters.Env) {
		fired = append(fired, "first")
	}, filters.Commands("ro"), yes)
	r.Handle("second", func(_ context.Context, _ *filters.Env) {
		fired = append(fired, "second")
	}, filters.Commands("ro"))

	assert.True(t, r.Dispatch(context.Background(), testEnv("ro")))
	assert.Equal(t, []string{"first"}, fired, "ровно один маршрут на сообщение")
}

// Полный маршрут с непройденным предикатом прав пропускает
// сообщение дальше, к фолбэку.
func TestRouterFallbackWhenPredicateFails(t *testing.T) {
	r := NewRouter()
	var fired []string

	r.Handle("mute", func(_ context.Context, _ *filters.Env) {
		fired = append(fired, "mute")
	}, filters.Commands("ro"), no /* botCanRestrict */)
	r.Handle("mute-fallback", func(_ context.Context, _ *filters.Env) {
		fired = append(fired, "fallback")
	}, filters.Commands("ro"))

	assert.True(t, r.Dispatch(context.Background(), testEnv("ro")))
	assert.Equal(t, []string{"fallback"}, fired)
}

func TestRouterNoMatch(t *testing.T) {
	r := NewRouter()
	r.Handle("mute", func(_ context.Context, _ *filters.Env) {
		t.Fatal("маршрут не должен был сработать")
	}, filters.Commands("ro"))

	assert.False(t, r.Dispatch(context.Background(), testEnv("ban")))
}

func TestRouterAllPredicatesMustMatch(t *testing.T) {
	r := NewRouter()
	fired := false

	r.Handle("route", func(_ context.Context, _ *filters.Env) {
		fired = true
	}, yes, yes, no)

	assert.False(t, r.Dispatch(context.Background(), testEnv("ro")))
	assert.False(t, fired)
}
