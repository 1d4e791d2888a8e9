package logship

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendChunk(_ context.Context, _ int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestSplitTextPacksLines(t *testing.T) {
	text := "aaa\nbbb\nccc"
	chunks := SplitText(text, 8)
	assert.Equal(t, []string{"aaa\nbbb", "ccc"}, chunks)
}

func TestSplitTextSingleChunk(t *testing.T) {
	chunks := SplitText("одна строка\nвторая", 100)
	assert.Equal(t, []string{"одна строка\nвторая"}, chunks)
}

func TestSplitTextHardWrapsLongLine(t *testing.T) {
	long := strings.Repeat("x", 25)
	chunks := SplitText("short\n"+long, 10)

	require.Len(t, chunks, 4)
	assert.Equal(t, "short", chunks[0])
	assert.Equal(t, strings.Repeat("x", 10), chunks[1])
	assert.Equal(t, strings.Repeat("x", 10), chunks[2])
	assert.Equal(t, strings.Repeat("x", 5), chunks[3])
}

func TestSplitTextRespectsRuneBoundaries(t *testing.T) {
	// кириллица — 2 байта на руну; жёсткая резка не должна рвать руну пополам
	long := strings.Repeat("ж", 20)
	for _, chunk := range SplitText(long, 7) {
		assert.True(t, strings.ContainsRune("ж", []rune(chunk)[0]))
		for _, r := range chunk {
			assert.Equal(t, 'ж', r)
		}
	}
}

func TestShipSendsAndTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o644))

	sender := &fakeSender{}
	s := NewShipper(sender, path, 300)

	require.NoError(t, s.Ship(context.Background()))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "<pre>line one\nline two</pre>", sender.sent[0])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "файл усечён после успешной отправки")
}

func TestShipSkipsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	sender := &fakeSender{}
	s := NewShipper(sender, path, 300)

	require.NoError(t, s.Ship(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestShipMissingFileIsNoop(t *testing.T) {
	sender := &fakeSender{}
	s := NewShipper(sender, filepath.Join(t.TempDir(), "nope.log"), 300)

	require.NoError(t, s.Ship(context.Background()))
	assert.Empty(t, sender.sent)
}

// Строка логов, плотно набитая кавычками, почти удваивается при
// экранировании: резать надо уже экранированный текст, иначе кусок
// вылезает за лимит сообщения и отправка падает на нём вечно.
func TestShipChunksStayWithinLimitAfterEscaping(t *testing.T) {
	line := strings.TrimSpace(strings.Repeat(`msg="a" `, 480)) // ~3.8к символов до экранирования
	path := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, os.WriteFile(path, []byte(line+"\nfin\n"), 0o644))

	sender := &fakeSender{}
	s := &Shipper{
		sender:  sender,
		path:    path,
		chatID:  300,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}

	require.NoError(t, s.Ship(context.Background()))
	require.NotEmpty(t, sender.sent)

	for i, msg := range sender.sent {
		assert.LessOrEqualf(t, len(msg), 4096, "кусок %d не влезает в одно сообщение", i)
	}
	assert.Contains(t, strings.Join(sender.sent, ""), "&#34;", "кавычки экранированы")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "файл усечён после успешной отправки")
}

func TestShipKeepsFileOnSendFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	content := []byte("line one\nline two\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	sender := &fakeSender{err: assert.AnError}
	s := NewShipper(sender, path, 300)

	require.Error(t, s.Ship(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, data, "при ошибке отправки файл не усекается")
}
