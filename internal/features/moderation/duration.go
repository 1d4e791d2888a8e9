// Package moderation — duration.go разбирает и форматирует длительности
// ограничений из текста команды ("1h30m спам", "2d", "навсегда").
package moderation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"karmabot/internal/common"
)

const (
	// ForeverDuration — сентинел «до ручного снятия»: очень большая,
	// но конечная и сравнимая длительность.
	ForeverDuration = 366 * 24 * time.Hour
	// DefaultDuration используется вызывающими, когда текст длительности не задан.
	DefaultDuration = 1 * time.Hour
)

var durationToken = regexp.MustCompile(`^(\d+)([wdhms])$`)

var unitSizes = map[string]time.Duration{
	"w": 7 * 24 * time.Hour,
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

var foreverTokens = map[string]struct{}{
	"навсегда": {},
	"forever":  {},
}

// ParseDuration разбирает компактную запись длительности: последовательность
// пар число+единица ("1h30m", "2d", "90m"). Специальный токен «навсегда»
// даёт ForeverDuration. Непонятный фрагмент — *common.DurationError
// с этим фрагментом внутри. Результат ограничен сверху ForeverDuration.
func ParseDuration(text string) (time.Duration, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, &common.DurationError{Text: text}
	}
	if _, ok := foreverTokens[text]; ok {
		return ForeverDuration, nil
	}

	var total time.Duration
	rest := text
	for rest != "" {
		idx := strings.IndexAny(rest, "wdhms")
		if idx < 0 {
			return 0, &common.DurationError{Text: rest}
		}
		token := rest[:idx+1]
		m := durationToken.FindStringSubmatch(token)
		if m == nil {
			return 0, &common.DurationError{Text: token}
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, &common.DurationError{Text: token}
		}
		total += time.Duration(n) * unitSizes[m[2]]
		rest = rest[idx+1:]
	}

	if total > ForeverDuration {
		total = ForeverDuration
	}
	return total, nil
}

// FormatDuration отображает длительность человеческой фразой от крупных
// единиц к мелким: "1 день 2 часа". Нулевая длительность — "0 секунд".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 секунд"
	}

	type unit struct {
		size   time.Duration
		plural func(int64) string
	}
	units := []unit{
		{7 * 24 * time.Hour, func(n int64) string { return common.PluralizeRu(n, "неделя", "недели", "недель") }},
		{24 * time.Hour, common.PluralizeDays},
		{time.Hour, common.PluralizeHours},
		{time.Minute, common.PluralizeMinutes},
		{time.Second, common.PluralizeSecondsRu},
	}

	var parts []string
	rest := d
	for _, u := range units {
		n := int64(rest / u.size)
		if n == 0 {
			continue
		}
		rest -= time.Duration(n) * u.size
		parts = append(parts, strconv.FormatInt(n, 10)+" "+u.plural(n))
	}
	if len(parts) == 0 {
		return "0 секунд"
	}
	return strings.Join(parts, " ")
}

// SplitModArgs делит хвост команды модератора на текст длительности
// и комментарий: "30m спам в чате" → ("30m", "спам в чате").
func SplitModArgs(args string) (durationText, comment string) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", ""
	}
	durationText, comment, _ = strings.Cut(args, " ")
	return durationText, strings.TrimSpace(comment)
}
