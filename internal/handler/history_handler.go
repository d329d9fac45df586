package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"labtrack/internal/clock"
	"labtrack/internal/entity"
	"labtrack/internal/service"
)

// HistoryHandler - просмотр прошлых сессий. В анонимном режиме история
// ищется по тройке (имя, фамилия, класс), в режиме учётных записей -
// по вошедшему пользователю.
type HistoryHandler struct {
	svc   *service.SessionService
	store sessions.Store
	tmpl  *template.Template
}

func NewHistoryHandler(svc *service.SessionService, store sessions.Store) *HistoryHandler {
	tmpl := template.Must(template.ParseFiles(
		"internal/templates/history.html",
	))
	return &HistoryHandler{
		svc:   svc,
		store: store,
		tmpl:  tmpl,
	}
}

type historyRow struct {
	Equipment string
	StartTime string
	EndTime   string
	Duration  string
}

func (h *HistoryHandler) ByName(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":    "История сессий",
		"ShowForm": true,
		"Flashes":  takeFlashes(h.store, w, r),
		"Form":     map[string]string{},
	}

	if r.Method != http.MethodPost {
		h.tmpl.Execute(w, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Ошибка обработки формы", http.StatusBadRequest)
		return
	}

	firstName := r.FormValue("first_name")
	lastName := r.FormValue("last_name")
	class := r.FormValue("class")

	data["Form"] = map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"class":      class,
	}

	sessions, err := h.svc.HistoryByName(firstName, lastName, class, 0)
	switch {
	case errors.Is(err, service.ErrValidation):
		addFlash(h.store, w, r, "Пожалуйста, заполните имя, фамилию и класс.")
		data["Flashes"] = takeFlashes(h.store, w, r)
	case err != nil:
		log.Printf("Ошибка при получении истории: %v", err)
		addFlash(h.store, w, r, "Ошибка при получении истории.")
		data["Flashes"] = takeFlashes(h.store, w, r)
	default:
		data["Rows"] = historyRows(sessions)
		data["Searched"] = true
	}

	h.tmpl.Execute(w, data)
}

func (h *HistoryHandler) ForAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(h.store, r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sessions, err := h.svc.History(userID, 0)
	if err != nil {
		log.Printf("Ошибка при получении истории пользователя %d: %v", userID, err)
		addFlash(h.store, w, r, "Ошибка при получении истории.")
	}

	data := map[string]interface{}{
		"Title":    "Мои сессии",
		"ShowForm": false,
		"Searched": true,
		"Flashes":  takeFlashes(h.store, w, r),
		"Rows":     historyRows(sessions),
	}
	h.tmpl.Execute(w, data)
}

func historyRows(sessions []entity.Session) []historyRow {
	rows := make([]historyRow, 0, len(sessions))
	for _, s := range sessions {
		row := historyRow{
			Equipment: s.Equipment,
			StartTime: clock.Format(s.StartTime),
		}
		if s.EndTime != nil {
			row.EndTime = clock.Format(*s.EndTime)
			row.Duration = formatDuration(s.Duration())
		} else {
			row.EndTime = "-"
			row.Duration = "идёт сейчас"
		}
		rows = append(rows, row)
	}
	return rows
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d ч %02d мин", int(d.Hours()), int(d.Minutes())%60)
}
