package models

import (
	"fmt"
	"strings"
	"time"
)

// PrayerName is one of the five daily prayers.
type PrayerName string

const (
	Fajr    PrayerName = "Fajr"
	Dhuhr   PrayerName = "Dhuhr"
	Asr     PrayerName = "Asr"
	Maghrib PrayerName = "Maghrib"
	Isha    PrayerName = "Isha"
)

// CanonicalPrayers lists the prayers in the order they are displayed.
var CanonicalPrayers = []PrayerName{Fajr, Dhuhr, Asr, Maghrib, Isha}

// ParsePrayerName matches a prayer name case-insensitively.
func ParsePrayerName(name string) (PrayerName, error) {
	for _, p := range CanonicalPrayers {
		if strings.EqualFold(string(p), strings.TrimSpace(name)) {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown prayer name %q", name)
}

// Icon is the display tag attached to a prayer card.
type Icon string

const (
	IconNight    Icon = "nightlight-round"
	IconLight    Icon = "light-mode"
	IconSunny    Icon = "wb-sunny"
	IconTwilight Icon = "wb-twilight"
	IconBedtime  Icon = "bedtime"
)

// PrayerIcons maps each prayer to its card icon.
var PrayerIcons = map[PrayerName]Icon{
	Fajr:    IconNight,
	Dhuhr:   IconLight,
	Asr:     IconSunny,
	Maghrib: IconTwilight,
	Isha:    IconBedtime,
}

// PrayerTimeEntry is one row of the persisted prayer-time snapshot.
type PrayerTimeEntry struct {
	Name PrayerName `json:"name"`
	Time string     `json:"time"` // "h:mm am" display form
	Icon Icon       `json:"icon"`
}

// DefaultPrayerTimes returns the table shown when nothing is stored and the provider is unreachable.
func DefaultPrayerTimes() []PrayerTimeEntry {
	return []PrayerTimeEntry{
		{Name: Fajr, Time: "5:24 am", Icon: IconNight},
		{Name: Dhuhr, Time: "12:18 pm", Icon: IconLight},
		{Name: Asr, Time: "3:42 pm", Icon: IconSunny},
		{Name: Maghrib, Time: "6:06 pm", Icon: IconTwilight},
		{Name: Isha, Time: "7:24 pm", Icon: IconBedtime},
	}
}

// IsCompleteSnapshot reports whether entries hold exactly one entry per canonical prayer.
func IsCompleteSnapshot(entries []PrayerTimeEntry) bool {
	if len(entries) != len(CanonicalPrayers) {
		return false
	}
	seen := make(map[PrayerName]bool, len(entries))
	for _, e := range entries {
		if _, ok := PrayerIcons[e.Name]; !ok || seen[e.Name] {
			return false
		}
		seen[e.Name] = true
	}

	return true
}

// DailyTimings is the provider answer for one day, times in "HH:mm" 24-hour form.
type DailyTimings struct {
	Date    time.Time
	Timings map[PrayerName]string
	Hijri   *HijriDate
}

// HijriDate is an Islamic calendar date, display only.
type HijriDate struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

func (h HijriDate) String() string {
	return fmt.Sprintf("%s %s, %s", h.Day, h.Month, h.Year)
}
