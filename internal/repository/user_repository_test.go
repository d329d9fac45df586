package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_RegisterAndAuthenticate(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	registered, err := users.Register("ivan", "секретный пароль", "Иван", "Петров", "9А")
	require.NoError(t, err)
	require.NotZero(t, registered.ID)
	require.True(t, registered.IsAccount())
	// в открытом виде пароль нигде не хранится
	require.NotContains(t, registered.PasswordHash, "секретный")

	user, err := users.Authenticate("ivan", "секретный пароль")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	_, err = users.Authenticate("ivan", "неверный пароль")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRepository_AuthenticateUnknownUser(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	_, err := users.Authenticate("никого", "пароль")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	_, err := users.Register("ivan", "первый пароль", "Иван", "Петров", "9А")
	require.NoError(t, err)

	_, err = users.Register("ivan", "другой пароль", "Иван", "Иванов", "9Б")
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	// хэш первоначальной записи не изменился
	_, err = users.Authenticate("ivan", "первый пароль")
	require.NoError(t, err)
	_, err = users.Authenticate("ivan", "другой пароль")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRepository_FindOrCreateByName(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	first, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.False(t, first.IsAccount())

	// тройка и есть ключ: повторная отметка находит ту же запись
	second, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	other, err := users.FindOrCreateByName("Иван", "Петров", "9Б")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, other.ID)
}

func TestUserRepository_FindByNameDoesNotCreate(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	found, err := users.FindByName("Иван", "Петров", "9А")
	require.NoError(t, err)
	require.Nil(t, found)

	created, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	found, err = users.FindByName("Иван", "Петров", "9А")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	created, err := users.FindOrCreateByName("Иван", "Петров", "9А")
	require.NoError(t, err)

	user, err := users.GetByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Иван Петров", user.FullName())
	require.Equal(t, "9А", user.Class)
	// метка создания переживает запись и чтение без потери точности
	require.True(t, user.CreatedAt.Equal(created.CreatedAt))
}

func TestUserRepository_GetByIDUnknown(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)

	_, err := users.GetByID(12345)
	require.ErrorIs(t, err, ErrIdentityNotFound)
}
