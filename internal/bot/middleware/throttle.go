// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и throttle-гейта.
package middleware

import (
	"sync"
	"time"
)

// ActionClass — логический класс действия для throttle.
// У каждого класса своё окно, состояние ведётся отдельно.
type ActionClass string

const (
	ClassKarma  ActionClass = "karma"
	ClassReport ActionClass = "report"
)

// Throttle ограничивает частоту действий: не чаще одного раза
// в заданное окно на пару (актор, класс действия).
// Проверка и обновление состояния атомарны под мьютексом, чтобы два
// почти одновременных сообщения одного актора не прошли гейт оба.
type Throttle struct {
	mu      sync.Mutex
	last    map[throttleKey]time.Time
	windows map[ActionClass]time.Duration
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

type throttleKey struct {
	actorID int64
	class   ActionClass
}

// NewThrottle создаёт throttle-гейт с окнами по классам действий.
func NewThrottle(windows map[ActionClass]time.Duration) *Throttle {
	t := &Throttle{
		last:    make(map[throttleKey]time.Time),
		windows: windows,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go t.cleanup()
	return t
}

// Close останавливает фоновую горутину очистки.
// Его надо вызывать на shutdown (иначе cleanup будет жить вечно).
func (t *Throttle) Close() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Allow сообщает, можно ли актору выполнить действие класса class.
// Разрешённый вызов фиксирует время; подавленный вызов время НЕ сдвигает,
// чтобы флуд не отодвигал окно бесконечно.
func (t *Throttle) Allow(actorID int64, class ActionClass) bool {
	window, ok := t.windows[class]
	if !ok || window <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := throttleKey{actorID: actorID, class: class}
	now := t.now()
	if last, seen := t.last[key]; seen && now.Sub(last) < window {
		return false
	}
	t.last[key] = now
	return true
}

func (t *Throttle) maxWindow() time.Duration {
	var max time.Duration
	for _, w := range t.windows {
		if w > max {
			max = w
		}
	}
	return max
}

func (t *Throttle) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.mu.Lock()
			cutoff := t.now().Add(-t.maxWindow())
			for key, last := range t.last {
				if last.Before(cutoff) {
					delete(t.last, key)
				}
			}
			t.mu.Unlock()
		}
	}
}
