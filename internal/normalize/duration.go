package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"livestat/internal/models"
)

var durationRe = regexp.MustCompile(`^(\d+):(\d+)$`)

// Duration computes the elapsed time between two raw time values as "H:MM"
// text. The hour is deliberately not zero-padded so a duration can never be
// mistaken for a time of day. An end before the start means the live crossed
// midnight. If either side fails to normalize the result is "" — duration is
// best-effort, never fatal.
func Duration(start, end models.Cell) string {
	ns, okS := Time(start)
	ne, okE := Time(end)
	if !okS || !okE {
		return ""
	}

	startTotal := clockMinutes(ns)
	endTotal := clockMinutes(ne)
	if endTotal < startTotal {
		endTotal += 24 * 60
	}

	diff := endTotal - startTotal
	return fmt.Sprintf("%d:%02d", diff/60, diff%60)
}

func clockMinutes(hhmm string) int {
	h, _ := strconv.Atoi(hhmm[:2])
	m, _ := strconv.Atoi(hhmm[3:])
	return h*60 + m
}

// DurationMinutes parses stored "H:MM" duration text into total minutes.
// A rounding-arrow suffix ("8:56 → 9:00") is ignored; unparseable input
// contributes 0.
func DurationMinutes(d string) int {
	if d == "" {
		return 0
	}
	timePart, _, _ := strings.Cut(d, "→")
	m := durationRe.FindStringSubmatch(strings.TrimSpace(timePart))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

// FormatDurationWithRounding applies the display rule that a duration with 55
// or more minutes is shown rounded up to the next whole hour. The stored
// value is never modified; the flag tells the caller the arrow was added.
func FormatDurationWithRounding(d string) (string, bool) {
	if d == "" || d == "-" {
		return "-", false
	}

	parts := strings.Split(d, ":")
	if len(parts) != 2 {
		return d, false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return d, false
	}

	if minutes >= 55 {
		return fmt.Sprintf("%s → %d:00", d, hours+1), true
	}
	return d, false
}

// MinutesClock renders accumulated minutes as a padded "HH:MM:00" clock for
// summary tables.
func MinutesClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
