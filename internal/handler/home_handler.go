package handler

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"labtrack/internal/clock"
	"labtrack/internal/repository"
	"labtrack/internal/service"
)

// HomeHandler - кабинет в режиме учётных записей: отметка прихода
// с номером кнопки, привязка оборудования и отметка ухода.
type HomeHandler struct {
	svc   *service.SessionService
	store sessions.Store
	tmpl  *template.Template
}

func NewHomeHandler(svc *service.SessionService, store sessions.Store) *HomeHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/home.html",
	))
	return &HomeHandler{
		svc:   svc,
		store: store,
		tmpl:  tmpl,
	}
}

func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(h.store, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	current, err := h.svc.CurrentForUser(userID)
	if err != nil {
		log.Printf("Ошибка поиска активной сессии пользователя %d: %v", userID, err)
		addFlash(h.store, w, r, "Ошибка при загрузке данных. Попробуйте ещё раз.")
	}

	session, _ := h.store.Get(r, sessionName)
	fullName, _ := session.Values["full_name"].(string)

	data := map[string]interface{}{
		"Title":    "Кабинет",
		"Flashes":  takeFlashes(h.store, w, r),
		"FullName": fullName,
	}
	if current != nil {
		data["HasOpen"] = true
		data["Equipment"] = current.Equipment
		data["StartTime"] = clock.Format(current.StartTime)
	}

	h.tmpl.Execute(w, data)
}

func (h *HomeHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	buttonNumber := strings.TrimSpace(r.FormValue("button_number"))

	session, err := h.svc.CheckInAccount(userID)
	switch {
	case errors.Is(err, repository.ErrSessionAlreadyOpen):
		addFlash(h.store, w, r, "У вас уже есть активная сессия. Завершите её прежде, чем начинать новую.")
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	case err != nil:
		log.Printf("Ошибка при создании сессии пользователя %d: %v", userID, err)
		addFlash(h.store, w, r, "Ошибка при создании сессии. Попробуйте ещё раз.")
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	log.Printf("Создана сессия с ID: %d", session.ID)

	if buttonNumber != "" {
		if err := h.svc.AttachEquipment(session.ID, buttonNumber); err != nil {
			log.Printf("Ошибка при сохранении номера кнопки для сессии %d: %v", session.ID, err)
			addFlash(h.store, w, r, "Сессия начата, но номер кнопки сохранить не удалось.")
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
	}

	addFlash(h.store, w, r, "Сессия начата!")
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *HomeHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	current, err := h.svc.CurrentForUser(userID)
	if err != nil {
		log.Printf("Ошибка поиска активной сессии пользователя %d: %v", userID, err)
		addFlash(h.store, w, r, "Ошибка при обновлении сессии. Попробуйте ещё раз.")
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	if current == nil {
		addFlash(h.store, w, r, "Нет активной сессии.")
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}

	err = h.svc.AttachEquipment(current.ID, r.FormValue("button_number"))
	switch {
	case errors.Is(err, service.ErrValidation):
		addFlash(h.store, w, r, "Введите номер кнопки.")
	case err != nil:
		log.Printf("Ошибка при обновлении сессии %d: %v", current.ID, err)
		addFlash(h.store, w, r, "Ошибка при обновлении сессии. Попробуйте ещё раз.")
	default:
		addFlash(h.store, w, r, "Номер кнопки сохранён.")
	}

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *HomeHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	err := h.svc.CheckOut(userID)
	switch {
	case errors.Is(err, repository.ErrNoOpenSession):
		addFlash(h.store, w, r, "Нет активной сессии.")
	case err != nil:
		log.Printf("Ошибка при завершении сессии пользователя %d: %v", userID, err)
		addFlash(h.store, w, r, "Ошибка при завершении сессии. Попробуйте ещё раз.")
	default:
		log.Printf("Пользователь %d завершил сессию", userID)
		addFlash(h.store, w, r, "Сессия завершена!")
	}

	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *HomeHandler) requirePost(w http.ResponseWriter, r *http.Request) (int, bool) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return 0, false
	}

	userID, ok := currentUserID(h.store, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return 0, false
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return 0, false
	}

	return userID, true
}
