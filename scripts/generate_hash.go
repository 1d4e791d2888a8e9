// +build ignore

// generate_hash.go считает Argon2id-хеш пароля суперпользователя.
// Запуск: go run scripts/generate_hash.go <пароль>
// Вывод готов к вставке в .env.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

// Параметры должны совпадать с проверкой в internal/features/superuser.
const (
	memory      uint32 = 64 * 1024
	iterations  uint32 = 3
	parallelism uint8  = 2
	saltLen            = 16
	keyLen      uint32 = 32
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Использование: go run scripts/generate_hash.go <пароль>")
		os.Exit(1)
	}

	encoded, err := encodePassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SUPERUSER_PASSWORD_HASH=" + encoded)
}

// encodePassword возвращает хеш в стандартном конверте
// $argon2id$v=19$m=..,t=..,p=..$salt$hash (base64 без паддинга).
func encodePassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("генерация соли: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}
