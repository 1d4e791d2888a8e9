// Package karma — service.go содержит бизнес-логику кармы:
// атомарное изменение ±1 с нижней границей и расчёт «веса» для отображения.
package karma

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"karmabot/internal/common"
	"karmabot/internal/config"
)

// Store — контракт хранилища кармы (реализуется Repository).
type Store interface {
	Get(ctx context.Context, userTGID, chatTGID int64) (*UserKarma, bool, error)
	Set(ctx context.Context, userTGID, chatTGID int64, value int) (*UserKarma, error)
}

// Service управляет системой кармы.
type Service struct {
	store Store
	cfg   *config.Config

	// per-key критические секции: два одновременных изменения кармы
	// одной и той же пары (user, chat) не должны гоняться на read-modify-write
	mu    sync.Mutex
	locks map[karmaKey]*keyLock
}

type karmaKey struct {
	userTGID int64
	chatTGID int64
}

// keyLock — мьютекс пары (user, chat) со счётчиком ожидающих.
// Запись в locks живёт, пока хоть кто-то держит или ждёт мьютекс,
// и удаляется на последнем unlockKey: карта не растёт с числом
// пар, встречавшихся за всю жизнь процесса.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewService создаёт сервис кармы.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		locks: make(map[karmaKey]*keyLock),
	}
}

func (s *Service) lockKey(k karmaKey) *keyLock {
	s.mu.Lock()
	l, ok := s.locks[k]
	if !ok {
		l = &keyLock{}
		s.locks[k] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *Service) unlockKey(k karmaKey, l *keyLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, k)
	}
	s.mu.Unlock()
}

// ChangeOrCreate применяет дельту ±1 к карме пары (target, chat).
// Если записи нет — создаёт её от базового значения и применяет дельту.
// Если результат опустился бы ниже минимума — common.ErrSubZeroKarma,
// запись не меняется. Возвращает обновлённую запись и вес для отображения.
//
// Самонаправленные изменения отсекаются выше (users.CanChangeKarma),
// здесь личность актора не перепроверяется.
func (s *Service) ChangeOrCreate(ctx context.Context, targetTGID, chatTGID, actorTGID int64, delta int) (*UserKarma, float64, error) {
	key := karmaKey{userTGID: targetTGID, chatTGID: chatTGID}
	l := s.lockKey(key)
	defer s.unlockKey(key, l)

	current := s.cfg.KarmaBase
	if uk, found, err := s.store.Get(ctx, targetTGID, chatTGID); err != nil {
		return nil, 0, err
	} else if found {
		current = uk.Karma
	}

	next := current + delta
	if next < s.cfg.KarmaFloor {
		return nil, 0, common.ErrSubZeroKarma
	}

	uk, err := s.store.Set(ctx, targetTGID, chatTGID, next)
	if err != nil {
		return nil, 0, err
	}

	return uk, s.powerOf(ctx, actorTGID, chatTGID), nil
}

// Karma возвращает карму пользователя в чате (базовое значение, если записи нет).
func (s *Service) Karma(ctx context.Context, userTGID, chatTGID int64) (int, error) {
	uk, found, err := s.store.Get(ctx, userTGID, chatTGID)
	if err != nil {
		return 0, err
	}
	if !found {
		return s.cfg.KarmaBase, nil
	}
	return uk.Karma, nil
}

// powerOf вычисляет вес актора для отображения рядом с дельтой.
// Формула — заменяемая политика: вес растёт с собственной кармой актора
// в этом чате и не опускается ниже 0.1. На проверки не влияет.
func (s *Service) powerOf(ctx context.Context, actorTGID, chatTGID int64) float64 {
	actorKarma := s.cfg.KarmaBase
	uk, found, err := s.store.Get(ctx, actorTGID, chatTGID)
	if err != nil {
		log.WithError(err).WithField("actor_tg_id", actorTGID).Debug("Не удалось прочитать карму актора для веса")
	} else if found {
		actorKarma = uk.Karma
	}

	power := 1.0 + float64(actorKarma)/100.0
	if power < 0.1 {
		power = 0.1
	}
	return power
}
