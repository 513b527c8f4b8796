package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"livestat/internal/models"
)

var canonicalDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func dateString(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// IsCanonicalDate reports whether s is already in "YYYY-MM-DD" form.
func IsCanonicalDate(s string) bool {
	return canonicalDateRe.MatchString(s)
}

// Date converts a raw cell into a canonical "YYYY-MM-DD" string. Unparseable
// text is returned verbatim so import never silently drops data; absent cells
// yield "".
func Date(c models.Cell) string {
	switch c.Kind {
	case models.CellAbsent:
		return ""

	case models.CellInstant:
		// Use the instant's own wall-clock fields, no timezone shifting.
		return dateString(c.Instant)

	case models.CellNumber:
		return dateString(serialToInstant(c.Number))

	case models.CellText:
		return dateFromText(c.Text)
	}
	return ""
}

func dateFromText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// Slash-delimited values are day/month/year, the layout of the source
	// spreadsheets.
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		if len(parts) == 3 {
			day := pad2(strings.TrimSpace(parts[0]))
			month := pad2(strings.TrimSpace(parts[1]))
			year := strings.TrimSpace(parts[2])
			switch len(year) {
			case 4:
				return year + "-" + month + "-" + day
			case 2:
				// Two-digit years pivot at 50: 75 → 1975, 25 → 2025.
				if n, err := strconv.Atoi(year); err == nil && n > 50 {
					return "19" + year + "-" + month + "-" + day
				}
				return "20" + year + "-" + month + "-" + day
			}
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateString(t)
		}
	}

	// Serial numbers that arrive as text.
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		return dateString(serialToInstant(v))
	}

	return raw
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// FormatDisplayDate renders a stored date as "DD-MM-YY" for display. The
// extra calendar day matches what the reporting screens have always shown;
// stored values are untouched.
func FormatDisplayDate(s string) string {
	if s == "" {
		return ""
	}

	if IsCanonicalDate(s) {
		year, _ := strconv.Atoi(s[0:4])
		month, _ := strconv.Atoi(s[5:7])
		day, _ := strconv.Atoi(s[8:10])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return fmt.Sprintf("%02d-%02d-%02d", t.Day(), int(t.Month()), t.Year()%100)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.AddDate(0, 0, 1)
			return fmt.Sprintf("%02d-%02d-%02d", t.Day(), int(t.Month()), t.Year()%100)
		}
	}
	return s
}
