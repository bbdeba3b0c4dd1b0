package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrInvalidMonth = errors.New("invalid month format")
	monthRe         = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// ToMonthStart parses "YYYY-MM" into the first instant of that month in UTC.
// An empty input yields the current month.
func ToMonthStart(input string, now time.Time) (time.Time, error) {
	if input == "" {
		now = now.UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	if !monthRe.MatchString(input) {
		return time.Time{}, ErrInvalidMonth
	}
	year, _ := strconv.Atoi(input[:4])
	month, _ := strconv.Atoi(input[5:])
	if year == 0 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidMonth, input)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthRange returns [start, end) covering the month that starts at start.
func MonthRange(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 1, 0)
}

func FormatMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ParseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates (UTC midnight).
func ParseDate(input string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", input)
}

// EndOfDay parses YYYY-MM-DD and returns 23:59:59 UTC of that day.
func EndOfDay(input string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(23*time.Hour + 59*time.Minute + 59*time.Second), nil
}
