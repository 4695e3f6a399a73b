package domain

import "time"

// DateLayout - формат календарной даты (ISO 8601)
const DateLayout = "2006-01-02"

// now - источник текущего времени, подменяется в тестах
var now = time.Now

// DateOf приводит момент времени к календарной дате (полночь UTC того же дня)
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today возвращает текущую календарную дату
func Today() time.Time {
	return DateOf(now())
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate форматирует календарную дату; пустая дата дает пустую строку
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DaysBetween считает количество полных календарных дней между датами
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// YearsBetween считает полные годы между датами с учетом месяца и дня
func YearsBetween(from, to time.Time) int {
	from, to = DateOf(from), DateOf(to)
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
