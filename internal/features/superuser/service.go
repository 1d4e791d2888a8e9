// Package superuser — service.go содержит гейт суперпользователя:
// членство в SUPERUSER_IDS и повышение привилегий через /login
// (Argon2id, in-memory сессии, защита от перебора).
package superuser

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"karmabot/internal/common"
	"karmabot/internal/config"
)

const (
	sessionTTL     = 24 * time.Hour
	maxAttempts    = 3
	attemptsWindow = 1 * time.Hour
)

// Service управляет доступом суперпользователей.
type Service struct {
	cfg *config.Config

	mu       sync.Mutex
	sessions map[int64]time.Time   // tg id → истечение сессии
	attempts map[int64][]time.Time // tg id → времена неудачных попыток
	now      func() time.Time
}

// NewService создаёт сервис суперпользователя.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:      cfg,
		sessions: make(map[int64]time.Time),
		attempts: make(map[int64][]time.Time),
		now:      time.Now,
	}
}

// IsSuperuser проверяет членство в списке суперпользователей.
func (s *Service) IsSuperuser(tgID int64) bool {
	return s.cfg.IsSuperuser(tgID)
}

// Login проверяет пароль и открывает сессию на 24 часа.
// Три неудачные попытки за час — блокировка на час.
func (s *Service) Login(tgID int64, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-attemptsWindow)
	var recent []time.Time
	for _, t := range s.attempts[tgID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.attempts[tgID] = recent

	if len(recent) >= maxAttempts {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.SuperuserPasswordHash) {
		s.attempts[tgID] = append(recent, now)
		log.WithField("user_id", tgID).Warn("Неудачная попытка входа суперпользователя")
		return common.ErrWrongPassword
	}

	delete(s.attempts, tgID)
	s.sessions[tgID] = now.Add(sessionTTL)
	log.WithField("user_id", tgID).Info("Суперпользователь авторизован")
	return nil
}

// HasSession проверяет, есть ли активная сессия.
// Деструктивные команды (/dump, /get_out) требуют её в дополнение к списку id.
func (s *Service) HasSession(tgID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.sessions[tgID]
	if !ok {
		return false
	}
	if s.now().After(expires) {
		delete(s.sessions, tgID)
		return false
	}
	return true
}

// verifyArgon2id сверяет пароль с хешем формата
// $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>.
func verifyArgon2id(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
