package timings

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/minaret/internal/models"
)

// ErrInvalidTime is returned for malformed clock strings.
var ErrInvalidTime = errors.New("invalid time")

const hoursInHalfDay = 12

var displayTimeRe = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(am|pm)\s*$`)

// FormatClock renders an hour and minute as "h:mm am" / "h:mm pm".
func FormatClock(hour, minute int) string {
	period := "am"
	if hour >= hoursInHalfDay {
		period = "pm"
	}
	h := hour % hoursInHalfDay
	if h == 0 {
		h = hoursInHalfDay
	}

	return fmt.Sprintf("%d:%02d %s", h, minute, period)
}

// FormatTime24to12 converts "HH:mm" to the 12-hour display form.
// "00:05" becomes "12:05 am", "12:00" becomes "12:00 pm" and "13:30" becomes "1:30 pm".
func FormatTime24to12(value string) (string, error) {
	hour, minute, err := parse24(value)
	if err != nil {
		return "", err
	}

	return FormatClock(hour, minute), nil
}

func parse24(value string) (int, int, error) {
	// Providers sometimes append a zone, e.g. "05:12 (EET)".
	value = strings.TrimSpace(value)
	if idx := strings.IndexByte(value, ' '); idx > 0 {
		value = value[:idx]
	}

	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q", ErrInvalidTime, value)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q", ErrInvalidTime, value)
	}

	return hour, minute, nil
}

// ParseDisplayTime parses "h:mm am" back into a 24-hour clock.
func ParseDisplayTime(value string) (int, int, error) {
	match := displayTimeRe.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour < 1 || hour > hoursInHalfDay || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	pm := strings.EqualFold(match[3], "pm")
	switch {
	case pm && hour != hoursInHalfDay:
		hour += hoursInHalfDay
	case !pm && hour == hoursInHalfDay:
		hour = 0
	}

	return hour, minute, nil
}

// ParseClock accepts either "HH:mm" or "h:mm am" and returns that clock time on the given day.
func ParseClock(value string, day time.Time) (time.Time, error) {
	hour, minute, err := ParseDisplayTime(value)
	if err != nil {
		if hour, minute, err = parse24(value); err != nil {
			return time.Time{}, err
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// ToEntries converts provider timings into the canonical five-entry snapshot.
// Prayers missing from the provider answer keep the default table value.
func ToEntries(daily *models.DailyTimings) ([]models.PrayerTimeEntry, error) {
	entries := models.DefaultPrayerTimes()
	for i, entry := range entries {
		raw, ok := daily.Timings[entry.Name]
		if !ok {
			continue
		}
		display, err := FormatTime24to12(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s time: %w", entry.Name, err)
		}
		entries[i].Time = display
	}

	return entries, nil
}
