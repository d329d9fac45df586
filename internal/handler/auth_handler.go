package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"
)

// Logout в анонимном режиме: забываем ссылку на текущую сессию в cookie.
// Открытая сессия в журнале остаётся открытой, пока её не завершат явно.
func Logout(store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		clearCurrentSession(store, w, r)
		addFlash(store, w, r, "Вы вышли из системы.")
		log.Println("Пользователь вышел из системы")

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
