package host

import (
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// minValidYear guards against an unset real-time clock: boards without an RTC
// boot at the epoch until the clock is synced.
const minValidYear = 2020

// WallCalendar reports today's local date from now, or unavailable while the
// clock is unset.
func WallCalendar(now func() time.Time) logic.Calendar {
	return logic.CalendarFunc(func() (logic.Date, bool) {
		t := now()
		if t.Year() < minValidYear {
			return logic.Date{}, false
		}
		return logic.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
	})
}
