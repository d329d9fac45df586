package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"labtrack/internal/repository"
)

type RegistrationHandler struct {
	userRepo *repository.UserRepository
	store    sessions.Store
	tmpl     *template.Template
}

func NewRegistrationHandler(userRepo *repository.UserRepository, store sessions.Store) *RegistrationHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/register.html",
	))
	return &RegistrationHandler{
		userRepo: userRepo,
		store:    store,
		tmpl:     tmpl,
	}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, "", map[string]string{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	firstName := strings.TrimSpace(r.FormValue("first_name"))
	lastName := strings.TrimSpace(r.FormValue("last_name"))
	class := strings.TrimSpace(r.FormValue("class"))

	form := map[string]string{
		"username":   username,
		"first_name": firstName,
		"last_name":  lastName,
		"class":      class,
	}

	if username == "" || password == "" || firstName == "" || lastName == "" || class == "" {
		h.render(w, "Пожалуйста, заполните все поля.", form)
		return
	}

	user, err := h.userRepo.Register(username, password, firstName, lastName, class)
	if errors.Is(err, repository.ErrDuplicateIdentity) {
		h.render(w, "Пользователь с таким логином уже существует.", form)
		return
	}
	if err != nil {
		log.Printf("Ошибка регистрации пользователя %s: %v", username, err)
		h.render(w, "Ошибка регистрации. Попробуйте ещё раз.", form)
		return
	}

	log.Printf("Зарегистрирован пользователь %s (ID: %d)", username, user.ID)

	setCurrentUser(h.store, w, r, user)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *RegistrationHandler) render(w http.ResponseWriter, errMsg string, form map[string]string) {
	data := map[string]interface{}{
		"Title": "Регистрация",
		"Error": errMsg,
		"Form":  form,
	}
	h.tmpl.Execute(w, data)
}
