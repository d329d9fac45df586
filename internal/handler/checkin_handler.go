package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"labtrack/internal/repository"
	"labtrack/internal/service"
)

// CheckinHandler - форма отметки прихода в анонимном режиме.
type CheckinHandler struct {
	svc   *service.SessionService
	store sessions.Store
	tmpl  *template.Template
}

func NewCheckinHandler(svc *service.SessionService, store sessions.Store) *CheckinHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/index.html",
	))
	return &CheckinHandler{
		svc:   svc,
		store: store,
		tmpl:  tmpl,
	}
}

func (h *CheckinHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.renderIndex(w, r, map[string]string{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return
	}

	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	class := r.FormValue("class")

	_, session, err := h.svc.CheckIn(firstName, lastName, class)
	switch {
	case errors.Is(err, service.ErrValidation):
		addFlash(h.store, w, r, "Пожалуйста, заполните имя, фамилию и класс.")
		h.renderIndex(w, r, map[string]string{
			"first_name": firstName,
			"last_name":  lastName,
			"class":      class,
		})
		return
	case errors.Is(err, repository.ErrSessionAlreadyOpen):
		addFlash(h.store, w, r, "У вас уже есть активная сессия. Завершите её прежде, чем начинать новую.")
		h.renderIndex(w, r, map[string]string{
			"first_name": firstName,
			"last_name":  lastName,
			"class":      class,
		})
		return
	case err != nil:
		log.Printf("Ошибка при создании сессии: %v", err)
		addFlash(h.store, w, r, "Ошибка при создании сессии. Попробуйте ещё раз.")
		h.renderIndex(w, r, map[string]string{})
		return
	}

	log.Printf("Создана сессия с ID: %d", session.ID)

	setCurrentSessionID(h.store, w, r, session.ID)
	addFlash(h.store, w, r, "Сессия начата! Теперь укажите номер ноутбука.")
	http.Redirect(w, r, "/start_session", http.StatusSeeOther)
}

func (h *CheckinHandler) renderIndex(w http.ResponseWriter, r *http.Request, form map[string]string) {
	data := map[string]interface{}{
		"Title":   "Отметка в лаборатории",
		"Flashes": takeFlashes(h.store, w, r),
		"Form":    form,
	}
	h.tmpl.Execute(w, data)
}
