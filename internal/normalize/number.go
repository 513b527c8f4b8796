package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"livestat/internal/models"
)

var kSuffixRe = regexp.MustCompile(`^([\d,]+\.?\d*)\s*[Kk]$`)

// Number coerces a raw cell into a plain number. Empty, "-", and unparseable
// input all become 0 so sums never see NaN.
func Number(c models.Cell) float64 {
	switch c.Kind {
	case models.CellNumber:
		if math.IsNaN(c.Number) {
			return 0
		}
		return c.Number
	case models.CellText:
		return numberFromText(c.Text)
	}
	return 0
}

func numberFromText(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0
	}

	// "1.62K" → 1620. Thousands separators inside the digits are allowed.
	if m := kSuffixRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return v * 1000
		}
	}

	v, err := cast.ToFloat64E(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return v
}

// FormatNumber renders a metric for display: K-suffix expanded, thousands
// separated, at most two decimal places. Percent strings pass through
// unchanged, as do empty and placeholder values.
func FormatNumber(s models.Scalar) string {
	if s.IsEmpty() || s.Text == "-" {
		return s.Text
	}
	if !s.IsNumber && strings.Contains(s.Text, "%") {
		return s.Text
	}

	v := s.Number
	if !s.IsNumber {
		v = numberFromText(s.Text)
	}
	return groupNumber(v)
}

func groupNumber(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if hasFrac && len(fracPart) > 2 {
		s = strconv.FormatFloat(v, 'f', 2, 64)
		intPart, fracPart, _ = strings.Cut(s, ".")
		fracPart = strings.TrimRight(fracPart, "0")
		hasFrac = fracPart != ""
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
