package utils

import "time"

// StartOfDay retorna a meia-noite do dia de t no fuso informado
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}

	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ElapsedCalendarDays conta quantas viradas de dia ocorreram entre from e to no fuso informado.
// Um registro às 23:59 comparado com 00:01 do dia seguinte conta como 1 dia.
func ElapsedCalendarDays(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}

	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	// Datas civis em UTC evitam dias de 23h/25h no horário de verão
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(end.Sub(start).Hours() / 24)
}

// IsSameDay verifica se duas datas caem no mesmo dia civil no fuso informado
func IsSameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}

	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
