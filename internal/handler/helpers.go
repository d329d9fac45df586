package handler

import (
	"net/http"

	"github.com/gorilla/sessions"

	"labtrack/internal/entity"
)

const sessionName = "app-session"

func addFlash(store sessions.Store, w http.ResponseWriter, r *http.Request, msg string) {
	session, _ := store.Get(r, sessionName)
	session.AddFlash(msg)
	session.Save(r, w)
}

func takeFlashes(store sessions.Store, w http.ResponseWriter, r *http.Request) []string {
	session, _ := store.Get(r, sessionName)

	var msgs []string
	for _, f := range session.Flashes() {
		if s, ok := f.(string); ok {
			msgs = append(msgs, s)
		}
	}
	session.Save(r, w)

	return msgs
}

func currentUserID(store sessions.Store, r *http.Request) (int, bool) {
	session, _ := store.Get(r, sessionName)
	userID, ok := session.Values["user_id"].(int)
	return userID, ok && userID > 0
}

func setCurrentUser(store sessions.Store, w http.ResponseWriter, r *http.Request, user entity.User) {
	session, _ := store.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	session.Values["full_name"] = user.FullName()
	session.Save(r, w)
}

// Текущая сессия посетителя в анонимном режиме хранится прямо в cookie.
func currentSessionID(store sessions.Store, r *http.Request) (int, bool) {
	session, _ := store.Get(r, sessionName)
	sessionID, ok := session.Values["session_id"].(int)
	return sessionID, ok && sessionID > 0
}

func setCurrentSessionID(store sessions.Store, w http.ResponseWriter, r *http.Request, id int) {
	session, _ := store.Get(r, sessionName)
	session.Values["session_id"] = id
	session.Save(r, w)
}

// clearCurrentSession забывает ссылку на сессию в cookie.
// Запись в журнале при этом не трогается.
func clearCurrentSession(store sessions.Store, w http.ResponseWriter, r *http.Request) {
	session, _ := store.Get(r, sessionName)
	delete(session.Values, "session_id")
	session.Save(r, w)
}
