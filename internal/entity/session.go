package entity

import "time"

type Session struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Equipment string     `json:"equipment,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// IsOpen — сессия открыта, пока не проставлено время окончания.
func (s Session) IsOpen() bool {
	return s.EndTime == nil
}

// Duration возвращает длительность завершённой сессии.
// Для открытой сессии возвращает ноль.
func (s Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
