package logic

import "time"

// Epsilon is the smallest deficit that raises an alert.
// Anything below it would print as 0.00.
const Epsilon = 0.005

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month, or 0 for an invalid month.
func DaysInMonth(year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	if month == time.February && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month-1]
}

// Deficit returns how far actual lags behind a time-linear share of goal,
// floored at zero. Invalid calendar positions yield zero.
func Deficit(goal, actual uint16, day, daysInMonth int) float64 {
	if daysInMonth <= 0 || day <= 0 {
		return 0
	}
	if day > daysInMonth {
		day = daysInMonth
	}
	expected := float64(goal) * float64(day) / float64(daysInMonth)
	d := expected - float64(actual)
	if d < 0 {
		return 0
	}
	return d
}

// DeficitOn computes the deficit for the calendar's current date.
// An unavailable date never alerts.
func DeficitOn(cal Calendar, goal, actual uint16) float64 {
	if cal == nil {
		return 0
	}
	d, ok := cal.Today()
	if !ok {
		return 0
	}
	return Deficit(goal, actual, d.Day, DaysInMonth(d.Year, d.Month))
}
