package repository

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Конфликты уровня хранилища. Все они исправимы пользователем:
// обработчики показывают подсказку и ничего не ломают.
var (
	ErrDuplicateIdentity  = errors.New("пользователь с таким логином уже существует")
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrIdentityNotFound   = errors.New("пользователь не найден")
	ErrSessionAlreadyOpen = errors.New("у пользователя уже есть активная сессия")
	ErrNoOpenSession      = errors.New("нет активной сессии")
	ErrSessionNotFound    = errors.New("сессия не найдена")
)

// isUniqueViolation распознаёт нарушение уникальности у обоих драйверов.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
