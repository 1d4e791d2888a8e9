package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestThrottle(windows map[ActionClass]time.Duration) (*Throttle, func(time.Duration)) {
	t := NewThrottle(windows)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	t.now = func() time.Time { return now }
	advance := func(d time.Duration) { now = now.Add(d) }
	return t, advance
}

func TestThrottleSuppressesWithinWindow(t *testing.T) {
	th, advance := newTestThrottle(map[ActionClass]time.Duration{ClassKarma: 30 * time.Second})
	defer th.Close()

	assert.True(t, th.Allow(1, ClassKarma))
	assert.False(t, th.Allow(1, ClassKarma))

	advance(29 * time.Second)
	assert.False(t, th.Allow(1, ClassKarma))

	advance(2 * time.Second)
	assert.True(t, th.Allow(1, ClassKarma))
}

func TestThrottleSuppressedCallDoesNotShiftWindow(t *testing.T) {
	th, advance := newTestThrottle(map[ActionClass]time.Duration{ClassKarma: 30 * time.Second})
	defer th.Close()

	assert.True(t, th.Allow(1, ClassKarma))

	// подавленная попытка на 20-й секунде не должна отодвинуть окно
	advance(20 * time.Second)
	assert.False(t, th.Allow(1, ClassKarma))

	advance(15 * time.Second) // 35 секунд от разрешённого вызова
	assert.True(t, th.Allow(1, ClassKarma))
}

func TestThrottleActorsIndependent(t *testing.T) {
	th, _ := newTestThrottle(map[ActionClass]time.Duration{ClassKarma: 30 * time.Second})
	defer th.Close()

	assert.True(t, th.Allow(1, ClassKarma))
	assert.True(t, th.Allow(2, ClassKarma))
	assert.False(t, th.Allow(1, ClassKarma))
	assert.False(t, th.Allow(2, ClassKarma))
}

func TestThrottleClassesIndependent(t *testing.T) {
	th, _ := newTestThrottle(map[ActionClass]time.Duration{
		ClassKarma:  30 * time.Second,
		ClassReport: 5 * time.Second,
	})
	defer th.Close()

	assert.True(t, th.Allow(1, ClassKarma))
	assert.True(t, th.Allow(1, ClassReport))
	assert.False(t, th.Allow(1, ClassKarma))
	assert.False(t, th.Allow(1, ClassReport))
}

func TestThrottleUnknownClassAlwaysAllowed(t *testing.T) {
	th, _ := newTestThrottle(map[ActionClass]time.Duration{ClassKarma: 30 * time.Second})
	defer th.Close()

	assert.True(t, th.Allow(1, ActionClass("unknown")))
	assert.True(t, th.Allow(1, ActionClass("unknown")))
}
