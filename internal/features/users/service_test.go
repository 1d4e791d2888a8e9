package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanChangeKarma(t *testing.T) {
	actor := &User{TGID: 1}
	other := &User{TGID: 2}

	assert.True(t, CanChangeKarma(other, actor))
	assert.False(t, CanChangeKarma(actor, actor), "самому себе карму менять нельзя")

	// другой локальный id, но тот же tg id — всё ещё сам себе
	sameTG := &User{ID: 99, TGID: 1}
	assert.False(t, CanChangeKarma(sameTG, actor))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Вася Пупкин", (&User{FirstName: "Вася", LastName: "Пупкин"}).FullName())
	assert.Equal(t, "Вася", (&User{FirstName: "Вася"}).FullName())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "@vasya", (&User{Username: "vasya", FirstName: "Вася"}).DisplayName())
	assert.Equal(t, "Вася", (&User{FirstName: "Вася"}).DisplayName())
}
