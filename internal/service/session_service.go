package service

import (
	"errors"
	"strings"

	"labtrack/internal/entity"
)

// ErrValidation - не заполнено обязательное поле. Пользователь просто
// заполняет форму заново, никакое состояние не меняется.
var ErrValidation = errors.New("заполните все обязательные поля")

// SessionLedger - журнал сессий (реализация в repository).
type SessionLedger interface {
	Open(userID int) (entity.Session, error)
	AttachEquipment(sessionID int, label string) error
	Close(userID int) error
	GetOpen(userID int) (*entity.Session, error)
	GetByID(sessionID int) (entity.Session, error)
	History(userID, limit int) ([]entity.Session, error)
}

// IdentityStore - хранилище идентичностей (реализация в repository).
type IdentityStore interface {
	FindOrCreateByName(firstName, lastName, class string) (entity.User, error)
	FindByName(firstName, lastName, class string) (*entity.User, error)
	GetByID(id int) (entity.User, error)
}

const defaultHistoryLimit = 20

// SessionService - машина состояний сессии: Idle -> Open -> Closed.
// Все правила переходов живут здесь и в предусловиях журнала,
// обработчики только переводят ошибки в сообщения.
type SessionService struct {
	users    IdentityStore
	sessions SessionLedger
}

func NewSessionService(users IdentityStore, sessions SessionLedger) *SessionService {
	return &SessionService{users: users, sessions: sessions}
}

// CheckIn - анонимная отметка: тройка (имя, фамилия, класс) разрешается
// в идентичность, для неё открывается сессия. Если открытая уже есть,
// журнал вернёт ErrSessionAlreadyOpen, и существующая сессия не тронется.
func (s *SessionService) CheckIn(firstName, lastName, class string) (entity.User, entity.Session, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	class = strings.TrimSpace(class)

	if firstName == "" || lastName == "" || class == "" {
		return entity.User{}, entity.Session{}, ErrValidation
	}

	user, err := s.users.FindOrCreateByName(firstName, lastName, class)
	if err != nil {
		return entity.User{}, entity.Session{}, err
	}

	session, err := s.sessions.Open(user.ID)
	if err != nil {
		return entity.User{}, entity.Session{}, err
	}

	return user, session, nil
}

// CheckInAccount - отметка для вошедшего пользователя.
func (s *SessionService) CheckInAccount(userID int) (entity.Session, error) {
	return s.sessions.Open(userID)
}

// AttachEquipment привязывает номер оборудования к открытой сессии.
// Состояние сессии не меняется, повторный вызов перезаписывает номер.
func (s *SessionService) AttachEquipment(sessionID int, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrValidation
	}

	return s.sessions.AttachEquipment(sessionID, label)
}

// CheckOut завершает открытую сессию. Повторное завершение
// вернёт ErrNoOpenSession.
func (s *SessionService) CheckOut(userID int) error {
	return s.sessions.Close(userID)
}

// Current возвращает сессию по её номеру вместе с владельцем.
func (s *SessionService) Current(sessionID int) (entity.Session, entity.User, error) {
	session, err := s.sessions.GetByID(sessionID)
	if err != nil {
		return entity.Session{}, entity.User{}, err
	}

	user, err := s.users.GetByID(session.UserID)
	if err != nil {
		return entity.Session{}, entity.User{}, err
	}

	return session, user, nil
}

// CurrentForUser возвращает открытую сессию пользователя, либо nil.
func (s *SessionService) CurrentForUser(userID int) (*entity.Session, error) {
	return s.sessions.GetOpen(userID)
}

func (s *SessionService) History(userID, limit int) ([]entity.Session, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.sessions.History(userID, limit)
}

// HistoryByName - история по тройке. Неизвестная тройка - пустая история,
// идентичность при этом не создаётся.
func (s *SessionService) HistoryByName(firstName, lastName, class string, limit int) ([]entity.Session, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	class = strings.TrimSpace(class)

	if firstName == "" || lastName == "" || class == "" {
		return nil, ErrValidation
	}

	user, err := s.users.FindByName(firstName, lastName, class)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return s.History(user.ID, limit)
}
