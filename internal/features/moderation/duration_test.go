package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karmabot/internal/common"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1h30m", 90 * time.Minute},
		{"2d", 48 * time.Hour},
		{"90m", 90 * time.Minute},
		{"1w", 7 * 24 * time.Hour},
		{"45s", 45 * time.Second},
		{"1d2h", 26 * time.Hour},
		{"навсегда", ForeverDuration},
		{"forever", ForeverDuration},
		{"НАВСЕГДА", ForeverDuration},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDuration(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDurationClampedToForever(t *testing.T) {
	got, err := ParseDuration("1000d")
	require.NoError(t, err)
	assert.Equal(t, ForeverDuration, got)
}

func TestParseDurationErrors(t *testing.T) {
	cases := []struct {
		in      string
		errText string
	}{
		{"", ""},
		{"h", "h"},       // пустая числовая часть
		{"xyz", "xyz"},   // нет ни одной единицы
		{"1x2h", "1x2h"}, // мусор внутри токена
		{"10", "10"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := ParseDuration(tc.in)
			require.Error(t, err)

			var de *common.DurationError
			require.True(t, errors.As(err, &de), "ожидалась DurationError, получили %T", err)
			assert.Equal(t, tc.errText, de.Text)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 секунд"},
		{-time.Minute, "0 секунд"},
		{30 * time.Minute, "30 минут"},
		{time.Hour, "1 час"},
		{26 * time.Hour, "1 день 2 часа"},
		{7 * 24 * time.Hour, "1 неделя"},
		{90 * time.Minute, "1 час 30 минут"},
		{21 * time.Minute, "21 минута"},
		{5 * time.Second, "5 секунд"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.in))
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	cases := map[string]string{
		"1d2h": "1 день 2 часа",
		"30m":  "30 минут",
		"1h":   "1 час",
		"2w":   "2 недели",
	}
	for in, want := range cases {
		d, err := ParseDuration(in)
		require.NoError(t, err)
		assert.Equal(t, want, FormatDuration(d))
	}
}

func TestSplitModArgs(t *testing.T) {
	cases := []struct {
		in       string
		duration string
		comment  string
	}{
		{"", "", ""},
		{"30m", "30m", ""},
		{"30m спам в чате", "30m", "спам в чате"},
		{"  2h  флуд ", "2h", "флуд"},
	}
	for _, tc := range cases {
		d, c := SplitModArgs(tc.in)
		assert.Equal(t, tc.duration, d)
		assert.Equal(t, tc.comment, c)
	}
}
