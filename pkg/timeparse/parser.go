package timeparse

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// ErrUnparsableExpression is returned by ParseStrict when no recognised form
// and no generic date layout matches the expression.
var ErrUnparsableExpression = errors.New("unparsable time expression")

// FallbackOffset is added to the reference time when nothing matches.
const FallbackOffset = time.Hour

// DefaultHour is the time of day used for day-granularity expressions
// ("tomorrow", weekday names) that carry no explicit clock clause.
const DefaultHour = 9

var (
	clockPattern    = regexp.MustCompile(`\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	relativePattern = regexp.MustCompile(`\bin\s+(\d+|an?)\s*(minutes?|mins?|hours?|hrs?|days?|weeks?|wks?|months?)\b`)
	weekdayPattern  = regexp.MustCompile(`\b(monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\b`)
	spacePattern    = regexp.MustCompile(`\s+`)
	punctPattern    = regexp.MustCompile(`[,;!?]+`)
)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tues": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thurs": time.Thursday, "thur": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

type clock struct {
	hour, minute int
}

// Parse resolves a natural-language expression against ref. It never fails:
// anything ParseStrict rejects resolves to ref + FallbackOffset.
func Parse(expr string, ref time.Time) time.Time {
	t, err := ParseStrict(expr, ref)
	if err != nil {
		return ref.Add(FallbackOffset)
	}
	return t
}

// ParseStrict resolves expr against ref and reports ErrUnparsableExpression
// instead of falling back. The result is in ref's location.
//
// Forms are tried in order: relative offset ("in 2 hours"), "tomorrow",
// "today" or empty, weekday names, "next week"/"next month", and finally a
// generic date-string interpretation. A trailing "at H[:MM][am|pm]" clause
// is extracted first and combines with any of them.
func ParseStrict(expr string, ref time.Time) (time.Time, error) {
	s := normalize(expr)

	at, s := extractClock(s)

	if t, matched, ok := parseRelative(s, ref, at); matched {
		if !ok {
			return time.Time{}, ErrUnparsableExpression
		}
		return t, nil
	}

	if hasWord(s, "tomorrow") {
		return atClockOr(ref.AddDate(0, 0, 1), at, DefaultHour), nil
	}

	if s == "" || hasWord(s, "today") {
		if at == nil {
			return ref, nil
		}
		t := setClock(ref, *at)
		if t.Before(ref) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	if m := weekdayPattern.FindString(s); m != "" {
		return atClockOr(nextWeekday(ref, weekdays[m], hasWord(s, "next")), at, DefaultHour), nil
	}

	if strings.Contains(s, "next week") {
		return atClockOr(ref.AddDate(0, 0, 7), at, -1), nil
	}
	if strings.Contains(s, "next month") {
		return atClockOr(addMonths(ref, 1), at, -1), nil
	}

	if t, ok := parseGeneric(s, ref); ok {
		return atClockOr(t, at, -1), nil
	}
	return time.Time{}, ErrUnparsableExpression
}

func normalize(s string) string {
	s = punctPattern.ReplaceAllString(strings.ToLower(s), " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// extractClock pulls the "at H[:MM][am|pm]" clause out of s. An out-of-range
// clock is left in place and ignored.
func extractClock(s string) (*clock, string) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, s
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return nil, s
	}
	rest := strings.Replace(s, m[0], " ", 1)
	return &clock{hour: hour, minute: minute}, strings.TrimSpace(spacePattern.ReplaceAllString(rest, " "))
}

// parseRelative handles "in N <unit>". Minute and hour offsets are exact and
// ignore any clock clause. matched reports that the form was recognised; ok
// is false when the offset cannot be represented.
func parseRelative(s string, ref time.Time, at *clock) (t time.Time, matched, ok bool) {
	m := relativePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false, false
	}
	n := 1
	if m[1] != "a" && m[1] != "an" {
		var err error
		if n, err = strconv.Atoi(m[1]); err != nil {
			return time.Time{}, true, false
		}
	}

	unit := m[2]
	switch {
	case strings.HasPrefix(unit, "min"):
		return addExact(ref, n, time.Minute)
	case strings.HasPrefix(unit, "h"):
		return addExact(ref, n, time.Hour)
	case strings.HasPrefix(unit, "d"):
		return atClockOr(ref.AddDate(0, 0, n), at, -1), true, true
	case strings.HasPrefix(unit, "w"):
		return atClockOr(ref.AddDate(0, 0, 7*n), at, -1), true, true
	case strings.HasPrefix(unit, "mon"):
		return atClockOr(addMonths(ref, n), at, -1), true, true
	}
	return time.Time{}, false, false
}

// addExact adds n units to ref, refusing offsets that overflow time.Duration.
func addExact(ref time.Time, n int, unit time.Duration) (time.Time, bool, bool) {
	if int64(n) > math.MaxInt64/int64(unit) {
		return time.Time{}, true, false
	}
	return ref.Add(time.Duration(n) * unit), true, true
}

// nextWeekday returns the first day strictly after ref's date that falls on
// target. "next <weekday>" naming today's weekday skips a further week.
func nextWeekday(ref time.Time, target time.Weekday, next bool) time.Time {
	days := int(target) - int(ref.Weekday())
	if days <= 0 {
		if days == 0 && next {
			days += 7
		}
		days += 7
	}
	return ref.AddDate(0, 0, days)
}

// addMonths moves t by n calendar months, clamping the day to the last valid
// day of the target month.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := now.With(first).EndOfMonth().Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// parseGeneric tries layout-driven interpretation: dateparse for full dates
// ("march 5 2026", "2026-03-05 14:00"), then jinzhu/now for partial forms
// that borrow missing fields from ref ("3-5", "14:30"). A date without a
// year lands on its next occurrence on or after ref's day.
func parseGeneric(s string, ref time.Time) (t time.Time, ok bool) {
	// dateparse is not total on malformed input.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	if s == "" {
		return time.Time{}, false
	}
	if parsed, err := dateparse.ParseIn(s, ref.Location()); err == nil {
		if parsed.Year() == 0 {
			parsed = withYear(parsed, ref.Year())
			if parsed.Before(now.With(ref).BeginningOfDay()) {
				parsed = withYear(parsed, ref.Year()+1)
			}
		}
		return parsed, true
	}
	if parsed, err := now.With(ref).Parse(s); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func setClock(t time.Time, c clock) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.hour, c.minute, 0, 0, t.Location())
}

// atClockOr applies the clock clause to t, or defaultHour:00 when there is
// none. A negative defaultHour keeps t's own time of day.
func atClockOr(t time.Time, at *clock, defaultHour int) time.Time {
	if at != nil {
		return setClock(t, *at)
	}
	if defaultHour >= 0 {
		return setClock(t, clock{hour: defaultHour})
	}
	return t
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
