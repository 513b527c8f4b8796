package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"livestat/internal/models"
)

// excelEpoch anchors spreadsheet serial values: serial 1 = 1900-01-01.
// The historical off-by-one of that convention is preserved on purpose so
// serials round-trip the same way existing exports do. Conversion is fixed
// to UTC so canonical output does not depend on the host timezone.
var excelEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	hhmmRe    = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	amPmRe    = regexp.MustCompile(`(?i)^([0-1]?\d|2[0-3]):([0-5]\d)\s*(AM|PM)$`)
	zeroishRe = regexp.MustCompile(`^0+:0+:?0*$`)
)

// timeLayouts is the last-resort text parse, tried in order.
var timeLayouts = []string{
	"15:04:05",
	"3:04:05 PM",
	"3:04:05PM",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 2, 2006 15:04:05",
	"January 2, 2006 15:04:05",
}

func serialToInstant(serial float64) time.Time {
	return excelEpoch.Add(time.Duration((serial - 1) * 24 * float64(time.Hour)))
}

func clockString(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Time converts an arbitrary cell into a canonical 24-hour "HH:MM" string.
// ok is false when the cell carries no time at all; "00:00" with ok true is a
// real instant, distinct from absence.
func Time(c models.Cell) (string, bool) {
	switch c.Kind {
	case models.CellAbsent:
		return "", false

	case models.CellInstant:
		return clockString(c.Instant.Hour(), c.Instant.Minute()), true

	case models.CellNumber:
		return timeFromNumber(c.Number)

	case models.CellText:
		return timeFromText(c.Text)
	}
	return "", false
}

func timeFromNumber(v float64) (string, bool) {
	if math.IsNaN(v) {
		return "", false
	}
	if v >= 1 {
		// Day-count serial: convert to an absolute instant first.
		t := serialToInstant(v)
		return clockString(t.Hour(), t.Minute()), true
	}

	// Fraction of a day: 0 = 00:00, 0.5 = 12:00.
	totalMinutes := int(math.Round(v * 24 * 60))
	hour := totalMinutes / 60
	minute := totalMinutes % 60
	if hour < 0 || hour > 23 {
		hour = ((hour % 24) + 24) % 24
	}
	if minute < 0 || minute > 59 {
		minute = ((minute % 60) + 60) % 60
	}
	return clockString(hour, minute), true
}

func timeFromText(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	// Legacy records used "00:00:01" as a stand-in for midnight.
	if s == "00:00:01" {
		return "00:00", true
	}

	// "0", "0:00", "00:00:00" and friends are midnight, not absence.
	if s == "0" || zeroishRe.MatchString(s) {
		return "00:00", true
	}

	if m := hhmmRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return clockString(hour, minute), true
	}

	if m := amPmRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		switch strings.ToUpper(m[3]) {
		case "AM":
			if hour == 12 {
				hour = 0
			}
		case "PM":
			if hour != 12 {
				hour += 12
			}
		}
		return clockString(hour, minute), true
	}

	if strings.EqualFold(s, "midnight") {
		return "00:00", true
	}
	if strings.EqualFold(s, "noon") {
		return "12:00", true
	}

	// Serial fractions sometimes arrive as text.
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v < 1 {
		return timeFromNumber(v)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return clockString(t.Hour(), t.Minute()), true
		}
	}
	return "", false
}
