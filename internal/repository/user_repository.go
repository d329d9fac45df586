package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"labtrack/internal/clock"
	"labtrack/internal/entity"
)

type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: clock.Now}
}

// Register создает учетную запись с логином и паролем.
// Пароль хранится только как bcrypt-хэш.
func (r *UserRepository) Register(username, password, firstName, lastName, class string) (entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	user := entity.User{
		Username:     &username,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Class:        class,
		CreatedAt:    r.now(),
	}

	err = r.db.QueryRow(`
        INSERT INTO users (username, password_hash, first_name, last_name, class, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, username, user.PasswordHash, firstName, lastName, class, clock.Format(user.CreatedAt)).Scan(&user.ID)

	if isUniqueViolation(err) {
		return entity.User{}, ErrDuplicateIdentity
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка регистрации: %w", err)
	}

	return user, nil
}

// Authenticate проверяет пароль по хэшу. Сообщение об ошибке одно и то же,
// существует пользователь или нет.
func (r *UserRepository) Authenticate(username, password string) (entity.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`
        SELECT id, username, password_hash, first_name, last_name, class, created_at
        FROM users WHERE username = $1
    `, username))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка входа: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return entity.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// FindOrCreateByName — анонимный вариант: тройка (имя, фамилия, класс)
// и есть идентичность, запись заводится при первой отметке.
func (r *UserRepository) FindOrCreateByName(firstName, lastName, class string) (entity.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`
        SELECT id, username, password_hash, first_name, last_name, class, created_at
        FROM users
        WHERE first_name = $1 AND last_name = $2 AND class = $3 AND username IS NULL
    `, firstName, lastName, class))

	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	user = entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Class:     class,
		CreatedAt: r.now(),
	}

	err = r.db.QueryRow(`
        INSERT INTO users (first_name, last_name, class, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, firstName, lastName, class, clock.Format(user.CreatedAt)).Scan(&user.ID)

	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return user, nil
}

// FindByName ищет анонимную идентичность, не создавая её.
// nil без ошибки - такой тройки ещё не было.
func (r *UserRepository) FindByName(firstName, lastName, class string) (*entity.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`
        SELECT id, username, password_hash, first_name, last_name, class, created_at
        FROM users
        WHERE first_name = $1 AND last_name = $2 AND class = $3 AND username IS NULL
    `, firstName, lastName, class))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetByID(id int) (entity.User, error) {
	user, err := r.scanUser(r.db.QueryRow(`
        SELECT id, username, password_hash, first_name, last_name, class, created_at
        FROM users WHERE id = $1
    `, id))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, ErrIdentityNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка получения пользователя %d: %w", id, err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (entity.User, error) {
	var (
		user      entity.User
		username  sql.NullString
		hash      sql.NullString
		createdAt string
	)

	err := row.Scan(&user.ID, &username, &hash, &user.FirstName, &user.LastName, &user.Class, &createdAt)
	if err != nil {
		return entity.User{}, err
	}

	if username.Valid {
		user.Username = &username.String
	}
	user.PasswordHash = hash.String

	user.CreatedAt, err = clock.Parse(createdAt)
	if err != nil {
		return entity.User{}, fmt.Errorf("ошибка разбора created_at: %w", err)
	}

	return user, nil
}
