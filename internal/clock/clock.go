package clock

import "time"

// Все метки времени храним в поясе UTC+3 (как на стенде в лаборатории).
var Zone = time.FixedZone("UTC+3", 3*60*60)

// Now возвращает время с секундной точностью - ровно той, что переживает
// запись в БД и чтение обратно.
func Now() time.Time {
	return time.Now().In(Zone).Truncate(time.Second)
}

// Format сериализует метку времени в текст для хранения в БД.
func Format(t time.Time) string {
	return t.In(Zone).Format(time.RFC3339)
}

func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(time.RFC3339, s, Zone)
}
