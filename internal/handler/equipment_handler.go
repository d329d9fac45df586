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

// EquipmentHandler - форма с номером ноутбука для только что начатой сессии.
type EquipmentHandler struct {
	svc   *service.SessionService
	store sessions.Store
	tmpl  *template.Template
}

func NewEquipmentHandler(svc *service.SessionService, store sessions.Store) *EquipmentHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/start_session.html",
	))
	return &EquipmentHandler{
		svc:   svc,
		store: store,
		tmpl:  tmpl,
	}
}

func (h *EquipmentHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := currentSessionID(h.store, r)
	if !ok {
		addFlash(h.store, w, r, "Нет активной сессии. Начните новую.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method != http.MethodPost {
		h.render(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return
	}

	laptopNumber := r.FormValue("laptop_number")

	err := h.svc.AttachEquipment(sessionID, laptopNumber)
	switch {
	case errors.Is(err, service.ErrValidation):
		addFlash(h.store, w, r, "Введите номер ноутбука.")
		h.render(w, r)
		return
	case errors.Is(err, repository.ErrSessionNotFound):
		log.Printf("Сессия с ID %d не найдена в БД", sessionID)
		addFlash(h.store, w, r, "Сессия не найдена в базе данных.")
		clearCurrentSession(h.store, w, r)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case err != nil:
		log.Printf("Ошибка при обновлении сессии %d: %v", sessionID, err)
		addFlash(h.store, w, r, "Ошибка при обновлении сессии. Попробуйте ещё раз.")
		h.render(w, r)
		return
	}

	log.Printf("Обновлена сессия %d - добавлен номер ноутбука", sessionID)
	addFlash(h.store, w, r, "Номер ноутбука сохранён. Сессия активна.")
	http.Redirect(w, r, "/finish", http.StatusSeeOther)
}

func (h *EquipmentHandler) render(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":   "Номер ноутбука",
		"Flashes": takeFlashes(h.store, w, r),
	}
	h.tmpl.Execute(w, data)
}
