// Package logship отправляет накопившийся лог-файл в служебный чат:
// файл режется на куски, влезающие в одно сообщение Telegram,
// куски уходят с паузами, чтобы не упереться во внешний лимит отправки.
package logship

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"karmabot/internal/common"
)

// MaxMessageSymbols — безопасный размер текста одного сообщения.
const MaxMessageSymbols = 4000

// Sender — отправка одного куска текста (реализуется поверх Bot API).
type Sender interface {
	SendChunk(ctx context.Context, chatID int64, text string) error
}

// Shipper читает лог-файл, отправляет его кусками и очищает файл.
type Shipper struct {
	sender  Sender
	path    string
	chatID  int64
	limiter *rate.Limiter
}

// NewShipper создаёт отправитель логов: не чаще одного сообщения в 3 секунды.
func NewShipper(sender Sender, path string, chatID int64) *Shipper {
	return &Shipper{
		sender:  sender,
		path:    path,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

// Ship отправляет текущее содержимое лог-файла и усекает его.
// Пустой или почти пустой файл не отправляется.
func (s *Shipper) Ship(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("чтение лог-файла: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" || !strings.Contains(content, "\n") {
		return nil
	}

	// экранируем ДО нарезки: после экранирования текст становится длиннее,
	// и кусок, отмеренный по сырому тексту, вылез бы за лимит сообщения
	chunks := SplitText(common.EscapeHTML(content), MaxMessageSymbols)
	log.WithFields(log.Fields{
		"path":   s.path,
		"chunks": len(chunks),
	}).Debug("Отправка лог-файла")

	for _, chunk := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.sender.SendChunk(ctx, s.chatID, common.PreRaw(chunk)); err != nil {
			return fmt.Errorf("отправка куска лога: %w", err)
		}
	}

	// файл усекается только после успешной отправки всех кусков
	if err := os.Truncate(s.path, 0); err != nil {
		return fmt.Errorf("усечение лог-файла: %w", err)
	}
	return nil
}

// SplitText режет текст на куски не длиннее max символов.
// Резка идёт по строкам; строка длиннее max дробится жёстко по рунам.
func SplitText(text string, max int) []string {
	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if len(line) > max {
			flush()
			for _, part := range hardWrap(line, max) {
				chunks = append(chunks, part)
			}
			continue
		}
		// +1 за перевод строки
		if buf.Len()+len(line)+1 > max {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}
	flush()
	return chunks
}

// hardWrap дробит одну сверхдлинную строку по границам рун.
func hardWrap(line string, max int) []string {
	var parts []string
	var buf strings.Builder
	for _, r := range line {
		if buf.Len()+len(string(r)) > max {
			parts = append(parts, buf.String())
			buf.Reset()
		}
		buf.WriteRune(r)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}
