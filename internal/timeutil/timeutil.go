package timeutil

import (
	"fmt"
	"time"
)

// TimeFuncs maps the date specifiers accepted in queries to the function
// resolving them relative to a reference time.
var TimeFuncs = map[string]func(time.Time) time.Time{
	"startOfHour":  StartOfHour,
	"endOfHour":    EndOfHour,
	"startOfDay":   StartOfDay,
	"endOfDay":     EndOfDay,
	"startOfWeek":  StartOfWeek,
	"endOfWeek":    EndOfWeek,
	"startOfMonth": StartOfMonth,
	"endOfMonth":   EndOfMonth,
	"startOfYear":  StartOfYear,
	"endOfYear":    EndOfYear,
}

type layout struct {
	format string
	round  func(time.Time) time.Time
}

func identity(t time.Time) time.Time { return t }

// Layouts are tried in order, most specific first.
var startLayouts = []layout{
	{time.RFC3339, identity},
	{time.DateTime, identity},
	{time.DateOnly, StartOfDay},
	{"2006-01", StartOfMonth},
	{"2006", StartOfYear},
}

var endLayouts = []layout{
	{time.RFC3339, identity},
	{time.DateTime, identity},
	{time.DateOnly, EndOfDay},
	{"2006-01", EndOfMonth},
	{"2006", EndOfYear},
}

func parse(loc *time.Location, s string, layouts []layout) (time.Time, error) {
	for _, l := range layouts {
		t, err := time.ParseInLocation(l.format, s, loc)
		if err == nil {
			return l.round(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported time format %q", s)
}

// ParseStartInLocation parses s and returns the first instant of the
// period it names, so "2024-03" yields midnight on March 1st.
func ParseStartInLocation(s string, loc *time.Location) (time.Time, error) {
	return parse(loc, s, startLayouts)
}

// ParseEndInLocation is like ParseStartInLocation but returns the last
// instant of the period.
func ParseEndInLocation(s string, loc *time.Location) (time.Time, error) {
	return parse(loc, s, endLayouts)
}

func ParseStart(s string) (time.Time, error) {
	return ParseStartInLocation(s, time.Local)
}

func ParseEnd(s string) (time.Time, error) {
	return ParseEndInLocation(s, time.Local)
}

func ResolveTime(what string, t time.Time) (time.Time, error) {
	fn, ok := TimeFuncs[what]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date specifier %q", what)
	}

	return fn(t), nil
}

func IsDateSpecifier(what string) bool {
	_, ok := TimeFuncs[what]

	return ok
}

func StartOfHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
}

func EndOfHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, -1, now.Location())
}

func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func EndOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, -1, now.Location())
}

// StartOfWeek returns midnight of the monday of the week containing now.
func StartOfWeek(now time.Time) time.Time {
	offset := int(now.Weekday()+6) % 7

	return StartOfDay(now).AddDate(0, 0, -offset)
}

func EndOfWeek(now time.Time) time.Time {
	return StartOfWeek(now).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

func StartOfMonth(now time.Time) time.Time {
	year, month, _ := now.Date()

	return time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
}

func EndOfMonth(now time.Time) time.Time {
	year, month, _ := now.Date()

	return time.Date(year, month+1, 1, 0, 0, 0, -1, now.Location())
}

func StartOfYear(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

func EndOfYear(now time.Time) time.Time {
	return time.Date(now.Year()+1, time.January, 1, 0, 0, 0, -1, now.Location())
}
