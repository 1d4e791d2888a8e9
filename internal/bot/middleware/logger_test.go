package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTextShortUnchanged(t *testing.T) {
	assert.Equal(t, "привет", truncateText("привет", 50))
}

func TestTruncateTextCountsRunes(t *testing.T) {
	// кириллица — 2 байта на руну; резка по байтам дала бы битый UTF-8
	long := strings.Repeat("ж", 60)
	got := truncateText(long, 50)

	assert.Equal(t, strings.Repeat("ж", 50)+"...", got)
	for _, r := range got {
		assert.Contains(t, "ж.", string(r))
	}
}
