package superuser

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"karmabot/internal/common"
	"karmabot/internal/config"
)

func encodeArgon2id(password string) string {
	salt := []byte("0123456789abcdef")
	var (
		memory      uint32 = 65536
		iterations  uint32 = 3
		parallelism uint8  = 2
	)
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func newTestSuperuser(password string) (*Service, func(time.Duration)) {
	cfg := &config.Config{
		SuperuserIDs:          []int64{42},
		SuperuserPasswordHash: encodeArgon2id(password),
	}
	s := NewService(cfg)
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	advance := func(d time.Duration) { now = now.Add(d) }
	return s, advance
}

func TestIsSuperuser(t *testing.T) {
	s, _ := newTestSuperuser("секрет")

	assert.True(t, s.IsSuperuser(42))
	assert.False(t, s.IsSuperuser(43))
}

func TestLoginOpensSession(t *testing.T) {
	s, _ := newTestSuperuser("секрет")

	assert.False(t, s.HasSession(42))
	require.NoError(t, s.Login(42, "секрет"))
	assert.True(t, s.HasSession(42))
}

func TestLoginWrongPassword(t *testing.T) {
	s, _ := newTestSuperuser("секрет")

	err := s.Login(42, "не секрет")
	require.ErrorIs(t, err, common.ErrWrongPassword)
	assert.False(t, s.HasSession(42))
}

func TestLoginLockoutAfterThreeAttempts(t *testing.T) {
	s, advance := newTestSuperuser("секрет")

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	}

	// даже правильный пароль не проходит во время блокировки
	require.ErrorIs(t, s.Login(42, "секрет"), common.ErrTooManyAttempts)

	// через час окно попыток очищается
	advance(61 * time.Minute)
	require.NoError(t, s.Login(42, "секрет"))
}

func TestLoginSuccessClearsAttempts(t *testing.T) {
	s, _ := newTestSuperuser("секрет")

	require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	require.NoError(t, s.Login(42, "секрет"))

	// счётчик сброшен: снова есть три попытки
	require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	require.ErrorIs(t, s.Login(42, "мимо"), common.ErrWrongPassword)
	require.ErrorIs(t, s.Login(42, "секрет"), common.ErrTooManyAttempts)
}

func TestSessionExpires(t *testing.T) {
	s, advance := newTestSuperuser("секрет")

	require.NoError(t, s.Login(42, "секрет"))
	assert.True(t, s.HasSession(42))

	advance(25 * time.Hour)
	assert.False(t, s.HasSession(42))
}

func TestVerifyArgon2idRejectsMalformedHash(t *testing.T) {
	assert.False(t, verifyArgon2id("пароль", ""))
	assert.False(t, verifyArgon2id("пароль", "$bcrypt$что-то"))
	assert.False(t, verifyArgon2id("пароль", "$argon2id$v=19$m=65536,t=3,p=2$не-base64!$тоже"))
}
