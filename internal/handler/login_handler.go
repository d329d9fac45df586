package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"

	"labtrack/internal/repository"
)

type LoginHandler struct {
	userRepo *repository.UserRepository
	store    sessions.Store
	tmpl     *template.Template
}

func NewLoginHandler(userRepo *repository.UserRepository, store sessions.Store) *LoginHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/login.html",
	))
	return &LoginHandler{
		userRepo: userRepo,
		store:    store,
		tmpl:     tmpl,
	}
}

func (h *LoginHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if userID, ok := currentUserID(h.store, r); ok && userID > 0 {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Title":   "Вход в систему",
		"Error":   r.URL.Query().Get("error"),
		"Message": r.URL.Query().Get("message"),
		"Form": map[string]string{
			"username": r.URL.Query().Get("username"),
		},
	}

	h.tmpl.Execute(w, data)
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.LoginPage(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		http.Redirect(w, r, "/login?error=empty_fields&username="+url.QueryEscape(username), http.StatusSeeOther)
		return
	}

	user, err := h.userRepo.Authenticate(username, password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		http.Redirect(w, r, "/login?error=invalid_credentials&username="+url.QueryEscape(username), http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("Ошибка входа для пользователя %s: %v", username, err)
		http.Redirect(w, r, "/login?error=server_error", http.StatusSeeOther)
		return
	}

	setCurrentUser(h.store, w, r, user)
	log.Printf("Успешный вход: %s (ID: %d)", username, user.ID)

	session, _ := h.store.Get(r, sessionName)
	if target, ok := session.Values["redirect_after_login"].(string); ok && target != "" {
		delete(session.Values, "redirect_after_login")
		session.Save(r, w)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout - выход из учётной записи: сбрасываем login-контекст целиком.
// Открытая сессия в журнале не трогается.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)

	log.Println("Пользователь вышел из системы")
	http.Redirect(w, r, "/login?message="+url.QueryEscape("Вы вышли из системы."), http.StatusSeeOther)
}
