package entity

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     *string   `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Class        string    `json:"class"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAccount — зарегистрирован ли пользователь с логином и паролем.
// Анонимные посетители хранятся без логина.
func (u User) IsAccount() bool {
	return u.Username != nil && *u.Username != ""
}
