package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// RequireAuth пускает дальше только вошедших пользователей.
// Хранилище cookie передаётся явно, общего глобального store нет.
func RequireAuth(store sessions.Store) func(http.Handler) http.Handler {
	publicPaths := []string{
		"/login",
		"/register",
		"/static/",
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			for _, publicPath := range publicPaths {
				if path == publicPath || strings.HasPrefix(path, publicPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			session, _ := store.Get(r, "app-session")

			userID, ok := session.Values["user_id"].(int)
			if !ok || userID == 0 {
				session.Values["redirect_after_login"] = path
				session.Save(r, w)

				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
