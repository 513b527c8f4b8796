package models

import (
	"strconv"
	"strings"
)

// Filter narrows a record listing. Zero-value fields are inactive.
// StreamerName and Platform match exactly after trimming; dates are an
// inclusive range over canonical "YYYY-MM-DD" values; Search is a
// case-insensitive substring test across every value field.
type Filter struct {
	StreamerName string
	Platform     string
	DateFrom     string
	DateTo       string
	Search       string
}

func (f Filter) IsZero() bool {
	return f.StreamerName == "" && f.Platform == "" && f.DateFrom == "" && f.DateTo == "" && f.Search == ""
}

func (f Filter) Matches(r LiveRecord) bool {
	if f.StreamerName != "" && strings.TrimSpace(r.StreamerName) != strings.TrimSpace(f.StreamerName) {
		return false
	}
	if f.Platform != "" && strings.TrimSpace(r.Platform) != strings.TrimSpace(f.Platform) {
		return false
	}

	if f.DateFrom != "" || f.DateTo != "" {
		// Canonical dates sort lexicographically; records without a usable
		// date never match a date-bounded query.
		if len(r.Date) != 10 {
			return false
		}
		if f.DateFrom != "" && r.Date < f.DateFrom {
			return false
		}
		if f.DateTo != "" && r.Date > f.DateTo {
			return false
		}
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		fields := []string{
			r.StreamerName,
			r.Platform,
			r.Date,
			r.StartTime,
			r.EndTime,
			r.Duration,
			r.CustomerReach.String(),
			r.Likes.String(),
			r.Orders.String(),
			strconv.FormatFloat(r.TotalAmount, 'f', -1, 64),
			r.AddToCart.String(),
			r.Shares.String(),
			r.Notes,
		}
		found := false
		for _, field := range fields {
			if field != "" && strings.Contains(strings.ToLower(field), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
