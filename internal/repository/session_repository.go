package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"labtrack/internal/clock"
	"labtrack/internal/entity"
)

// SessionRepository - журнал сессий. Единственный, кто пишет в таблицу sessions.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: clock.Now}
}

// Open начинает новую сессию. Проверка "нет ли уже открытой" и вставка идут
// в одной транзакции; частичный уникальный индекс sessions_one_open
// подстраховывает на случай гонки.
func (r *SessionRepository) Open(userID int) (entity.Session, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return entity.Session{}, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRow(`
        SELECT id FROM sessions WHERE user_id = $1 AND end_time IS NULL
    `, userID).Scan(&existing)

	if err == nil {
		return entity.Session{}, ErrSessionAlreadyOpen
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.Session{}, fmt.Errorf("ошибка проверки активной сессии: %w", err)
	}

	session := entity.Session{
		UserID:    userID,
		StartTime: r.now(),
	}

	err = tx.QueryRow(`
        INSERT INTO sessions (user_id, start_time)
        VALUES ($1, $2)
        RETURNING id
    `, userID, clock.Format(session.StartTime)).Scan(&session.ID)

	if isUniqueViolation(err) {
		return entity.Session{}, ErrSessionAlreadyOpen
	}
	if err != nil {
		return entity.Session{}, fmt.Errorf("ошибка создания сессии: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Session{}, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return session, nil
}

// AttachEquipment записывает номер оборудования. Повторный вызов
// просто перезаписывает значение.
func (r *SessionRepository) AttachEquipment(sessionID int, label string) error {
	res, err := r.db.Exec(`
        UPDATE sessions SET equipment = $1 WHERE id = $2
    `, label, sessionID)

	if err != nil {
		return fmt.Errorf("ошибка обновления сессии %d: %w", sessionID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка обновления сессии %d: %w", sessionID, err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Close завершает открытую сессию пользователя.
func (r *SessionRepository) Close(userID int) error {
	res, err := r.db.Exec(`
        UPDATE sessions SET end_time = $1 WHERE user_id = $2 AND end_time IS NULL
    `, clock.Format(r.now()), userID)

	if err != nil {
		return fmt.Errorf("ошибка завершения сессии: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка завершения сессии: %w", err)
	}
	if affected == 0 {
		return ErrNoOpenSession
	}

	return nil
}

// GetOpen возвращает открытую сессию пользователя, либо nil.
func (r *SessionRepository) GetOpen(userID int) (*entity.Session, error) {
	session, err := r.scanSession(r.db.QueryRow(`
        SELECT id, user_id, equipment, start_time, end_time
        FROM sessions
        WHERE user_id = $1 AND end_time IS NULL
    `, userID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска активной сессии: %w", err)
	}

	return &session, nil
}

func (r *SessionRepository) GetByID(sessionID int) (entity.Session, error) {
	session, err := r.scanSession(r.db.QueryRow(`
        SELECT id, user_id, equipment, start_time, end_time
        FROM sessions WHERE id = $1
    `, sessionID))

	if errors.Is(err, sql.ErrNoRows) {
		return entity.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return entity.Session{}, fmt.Errorf("ошибка получения сессии %d: %w", sessionID, err)
	}

	return session, nil
}

// History возвращает сессии пользователя, самые свежие первыми.
func (r *SessionRepository) History(userID, limit int) ([]entity.Session, error) {
	rows, err := r.db.Query(`
        SELECT id, user_id, equipment, start_time, end_time
        FROM sessions
        WHERE user_id = $1
        ORDER BY start_time DESC
        LIMIT $2
    `, userID, limit)

	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	var sessions []entity.Session
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения истории: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения истории: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepository) scanSession(row rowScanner) (entity.Session, error) {
	var (
		session   entity.Session
		equipment sql.NullString
		start     string
		end       sql.NullString
	)

	err := row.Scan(&session.ID, &session.UserID, &equipment, &start, &end)
	if err != nil {
		return entity.Session{}, err
	}

	session.Equipment = equipment.String

	session.StartTime, err = clock.Parse(start)
	if err != nil {
		return entity.Session{}, fmt.Errorf("ошибка разбора start_time: %w", err)
	}

	if end.Valid {
		endTime, err := clock.Parse(end.String)
		if err != nil {
			return entity.Session{}, fmt.Errorf("ошибка разбора end_time: %w", err)
		}
		session.EndTime = &endTime
	}

	return session, nil
}
