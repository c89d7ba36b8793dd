package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeClock coerces the heterogeneous time text that lands in
// spreadsheet cells ("9", "9:30", "09:00 AM", "2 PM") into HH:MM.
// It returns false when the text cannot be read as a time of day.
func NormalizeClock(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	pm := strings.HasSuffix(s, "PM")
	am := strings.HasSuffix(s, "AM")
	if pm || am {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	var hourPart, minutePart string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hourPart, minutePart = s[:i], s[i+1:]
	} else {
		hourPart = s
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return "", false
	}
	minute := 0
	if mp := strings.TrimSpace(minutePart); mp != "" {
		minute, err = strconv.Atoi(mp)
		if err != nil {
			return "", false
		}
	}

	if pm && hour < 12 {
		hour += 12
	}
	if am && hour == 12 {
		hour = 0
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
