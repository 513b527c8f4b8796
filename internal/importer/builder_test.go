package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"livestat/internal/models"
)

func TestBuildRecord_FullRow(t *testing.T) {
	raw := RawFields{
		StreamerName:  models.TextCell("Alice"),
		Platform:      models.TextCell("Tiktok Official"),
		Date:          models.NumberCell(45000),
		StartTime:     models.TextCell("9:00"),
		EndTime:       models.TextCell("10:10"),
		Likes:         models.TextCell("1.62K"),
		Orders:        models.TextCell("12 cancelled 2"),
		TotalAmount:   models.TextCell("1,500"),
		CustomerReach: models.NumberCell(230),
	}

	draft, failures := BuildRecord(raw)
	assert.Equal(t, 0, failures)
	assert.Equal(t, "Alice", draft.StreamerName)
	assert.Equal(t, "2023-03-16", draft.Date)
	assert.Equal(t, "09:00", draft.StartTime)
	assert.Equal(t, "10:10", draft.EndTime)
	assert.Equal(t, "1:10", draft.Duration)
	assert.True(t, draft.DurationTrusted)
	assert.Equal(t, models.NumberScalar(1620), draft.Likes)
	assert.Equal(t, models.NumberScalar(230), draft.CustomerReach)
	assert.Equal(t, models.NumberScalar(1500), draft.TotalAmount)
}

func TestBuildRecord_OrdersKeptVerbatim(t *testing.T) {
	draft, _ := BuildRecord(RawFields{Orders: models.TextCell("12 cancelled 2")})
	assert.Equal(t, models.TextScalar("12 cancelled 2"), draft.Orders)

	draft, _ = BuildRecord(RawFields{Orders: models.NumberCell(12)})
	assert.Equal(t, models.NumberScalar(12), draft.Orders)
}

func TestBuildRecord_SuppliedDurationTrusted(t *testing.T) {
	raw := RawFields{
		StartTime: models.TextCell("09:00"),
		EndTime:   models.TextCell("17:00"),
		Duration:  models.TextCell("7:45"),
	}
	draft, _ := BuildRecord(raw)
	assert.Equal(t, "7:45", draft.Duration)
	assert.True(t, draft.DurationTrusted)
}

func TestBuildRecord_DerivedDuration(t *testing.T) {
	raw := RawFields{
		StartTime: models.TextCell("23:30"),
		EndTime:   models.TextCell("00:15"),
	}
	draft, _ := BuildRecord(raw)
	assert.Equal(t, "0:45", draft.Duration)
}

func TestBuildRecord_EmptyMetricsStayEmpty(t *testing.T) {
	draft, failures := BuildRecord(RawFields{})
	assert.Equal(t, 0, failures)
	assert.Equal(t, models.TextScalar(""), draft.Likes)
	assert.Equal(t, models.TextScalar(""), draft.CustomerReach)
	assert.Equal(t, models.TextScalar(""), draft.AddToCart)
	assert.Equal(t, models.TextScalar(""), draft.Shares)
	assert.Equal(t, models.TextScalar(""), draft.Orders)
	assert.Equal(t, models.NumberScalar(0), draft.TotalAmount)
	assert.Equal(t, "", draft.Duration)
	assert.False(t, draft.DurationTrusted)
}

func TestBuildRecord_CountsParseFailures(t *testing.T) {
	raw := RawFields{
		Date:      models.TextCell("sometime last week"),
		StartTime: models.TextCell("not a time"),
		EndTime:   models.TextCell("also junk"),
	}
	draft, failures := BuildRecord(raw)
	assert.Equal(t, 3, failures)
	// Unparseable dates are kept verbatim, degraded but not dropped.
	assert.Equal(t, "sometime last week", draft.Date)
	assert.Equal(t, "", draft.StartTime)
}

func TestBuildRecord_MidnightSentinelNotAFailure(t *testing.T) {
	raw := RawFields{
		StartTime: models.TextCell("00:00:01"),
		EndTime:   models.TextCell("01:00"),
	}
	draft, failures := BuildRecord(raw)
	assert.Equal(t, 0, failures)
	assert.Equal(t, "00:00", draft.StartTime)
	assert.Equal(t, "1:00", draft.Duration)
}
