// Package dateparse turns free-form event date strings into timestamps.
// Listing sites publish dates in wildly different shapes ("Sunday, December 4,
// 2025 at 1:00 PM", "Tomorrow", "Saturday 10:00 AM") so parsing is best effort
// and returns nil when no confident reading exists
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// full date with a clock, optional range prefix and weekday
	// ex: through Sunday, December 4, 2025 at 1:00 PM
	fullDateTimeRe = regexp.MustCompile(`(?i)(?:through|until|from|on)?\s*([A-Za-z]+day)?\s*,?\s*([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})\s+(?:at\s+)?(\d{1,2}):(\d{2})\s*(AM|PM)`)

	// full date without a clock, ex: Sunday, December 4, 2025
	fullDateRe = regexp.MustCompile(`(?i)(?:through|until|from|on)?\s*([A-Za-z]+day)?\s*,?\s*([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})`)

	relativeRe = regexp.MustCompile(`(?i)^(today|tomorrow)$`)

	// weekday followed by a clock, ex: Sunday 1:00 PM or Sunday at 1:00 PM
	weekdayTimeRe = regexp.MustCompile(`(?i)^([A-Za-z]+day)\s+(?:at\s+)?(\d{1,2}):(\d{2})\s*(AM|PM)`)

	weekdayOnlyRe = regexp.MustCompile(`(?i)^([A-Za-z]+day)$`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// layouts tried as a last resort when no rule matched
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
}

// Parse extracts a timestamp from raw relative to now, or nil when the string
// carries no single usable date. Events spanning many dates ("dates vary")
// deliberately parse to nil
func Parse(raw string, now time.Time) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "dates vary") ||
		strings.Contains(lower, "varies") ||
		strings.Contains(lower, "multiple dates") {
		return nil
	}

	if m := fullDateTimeRe.FindStringSubmatch(trimmed); m != nil {
		if month, ok := months[strings.ToLower(m[2])]; ok {
			day := atoi(m[3])
			year := atoi(m[4])
			hours := clockHour(atoi(m[5]), m[7])
			minutes := atoi(m[6])
			t := time.Date(year, month, day, hours, minutes, 0, 0, now.Location())
			return &t
		}
	}

	if m := fullDateRe.FindStringSubmatch(trimmed); m != nil {
		if month, ok := months[strings.ToLower(m[2])]; ok {
			day := atoi(m[3])
			year := atoi(m[4])
			t := time.Date(year, month, day, 12, 0, 0, 0, now.Location())
			return &t
		}
	}

	if m := relativeRe.FindStringSubmatch(trimmed); m != nil {
		d := now
		if strings.EqualFold(m[1], "tomorrow") {
			d = d.AddDate(0, 0, 1)
		}
		t := atNoon(d)
		return &t
	}

	if m := weekdayTimeRe.FindStringSubmatch(trimmed); m != nil {
		hours := clockHour(atoi(m[2]), m[4])
		minutes := atoi(m[3])
		if t := nextWeekday(now, m[1], hours, minutes); t != nil {
			return t
		}
	}

	if m := weekdayOnlyRe.FindStringSubmatch(trimmed); m != nil {
		if t := nextWeekday(now, m[1], 12, 0); t != nil {
			return t
		}
	}

	// last resort: well-known layouts, accepted only for the current year
	// older listings tend to carry stale or placeholder years
	for _, layout := range fallbackLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			if parsed.Year() == now.Year() {
				t := atNoon(parsed)
				return &t
			}
			break
		}
	}

	return nil
}

// nextWeekday finds the next occurrence of dayName at the given clock.
// When dayName is today and the clock already passed, it rolls a full week out
func nextWeekday(now time.Time, dayName string, hours, minutes int) *time.Time {
	target, ok := weekdays[strings.ToLower(dayName)]
	if !ok {
		return nil
	}

	daysUntil := int(target) - int(now.Weekday())
	if daysUntil < 0 {
		daysUntil += 7
	} else if daysUntil == 0 {
		todayAt := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
		if now.After(todayAt) {
			daysUntil = 7
		}
	}

	d := now.AddDate(0, 0, daysUntil)
	t := time.Date(d.Year(), d.Month(), d.Day(), hours, minutes, 0, 0, now.Location())
	return &t
}

func clockHour(h int, ampm string) int {
	switch strings.ToUpper(ampm) {
	case "PM":
		if h != 12 {
			h += 12
		}
	case "AM":
		if h == 12 {
			h = 0
		}
	}
	return h
}

func atNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
