package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"labtrack/internal/clock"
	"labtrack/internal/repository"
	"labtrack/internal/service"
)

// FinishHandler показывает текущую сессию и завершает её.
type FinishHandler struct {
	svc   *service.SessionService
	store sessions.Store
	tmpl  *template.Template
}

func NewFinishHandler(svc *service.SessionService, store sessions.Store) *FinishHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/finish.html",
	))
	return &FinishHandler{
		svc:   svc,
		store: store,
		tmpl:  tmpl,
	}
}

func (h *FinishHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := currentSessionID(h.store, r)
	if !ok {
		addFlash(h.store, w, r, "Нет активной сессии. Начните новую.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, user, err := h.svc.Current(sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrIdentityNotFound) {
		log.Printf("Сессия с ID %d не найдена в БД", sessionID)
		addFlash(h.store, w, r, "Сессия не найдена в базе данных.")
		clearCurrentSession(h.store, w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("Ошибка при получении данных сессии %d: %v", sessionID, err)
		addFlash(h.store, w, r, "Ошибка при получении данных сессии.")
		clearCurrentSession(h.store, w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := map[string]interface{}{
		"Title":     "Активная сессия",
		"Flashes":   takeFlashes(h.store, w, r),
		"FullName":  user.FullName(),
		"Class":     user.Class,
		"Equipment": session.Equipment,
		"StartTime": clock.Format(session.StartTime),
	}
	h.tmpl.Execute(w, data)
}

func (h *FinishHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/finish", http.StatusSeeOther)
		return
	}

	sessionID, ok := currentSessionID(h.store, r)
	if !ok {
		addFlash(h.store, w, r, "Нет активной сессии.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session, _, err := h.svc.Current(sessionID)
	if err == nil {
		err = h.svc.CheckOut(session.UserID)
	}

	switch {
	case errors.Is(err, repository.ErrSessionNotFound), errors.Is(err, repository.ErrNoOpenSession):
		addFlash(h.store, w, r, "Нет активной сессии.")
	case err != nil:
		log.Printf("Ошибка при завершении сессии %d: %v", sessionID, err)
		addFlash(h.store, w, r, "Ошибка при завершении сессии. Попробуйте ещё раз.")
		http.Redirect(w, r, "/finish", http.StatusSeeOther)
		return
	default:
		log.Printf("Сессия %d завершена", sessionID)
		addFlash(h.store, w, r, "Сессия завершена!")
	}

	clearCurrentSession(h.store, w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
