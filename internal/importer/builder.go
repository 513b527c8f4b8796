package importer

import (
	"livestat/internal/models"
	"livestat/internal/normalize"
)

// BuildRecord assembles a canonical record draft from resolved raw fields.
// parseFailures counts cells that carried data but did not normalize, so the
// caller can surface how degraded an import batch was; degraded rows are
// still imported with sentinel values.
func BuildRecord(raw RawFields) (draft models.RecordDraft, parseFailures int) {
	draft.StreamerName = raw.StreamerName.String()
	draft.Platform = raw.Platform.String()
	draft.ImageLink = raw.ImageLink.String()
	draft.Notes = raw.Notes.String()

	draft.Date = normalize.Date(raw.Date)
	if !raw.Date.IsEmpty() && !normalize.IsCanonicalDate(draft.Date) {
		parseFailures++
	}

	start, okStart := normalize.Time(raw.StartTime)
	if !okStart && !raw.StartTime.IsEmpty() {
		parseFailures++
	}
	end, okEnd := normalize.Time(raw.EndTime)
	if !okEnd && !raw.EndTime.IsEmpty() {
		parseFailures++
	}
	draft.StartTime = start
	draft.EndTime = end

	// A duration supplied by the source is trusted verbatim for this record;
	// otherwise it is derived from the normalized times.
	if !raw.Duration.IsEmpty() {
		draft.Duration = raw.Duration.String()
		draft.DurationTrusted = true
	} else {
		draft.Duration = normalize.Duration(raw.StartTime, raw.EndTime)
		draft.DurationTrusted = draft.Duration != ""
	}

	// Metric fields are coerced only when present: "" stays "", keeping
	// "no data" distinct from zero.
	draft.CustomerReach = coerceMetric(raw.CustomerReach)
	draft.Likes = coerceMetric(raw.Likes)
	draft.AddToCart = coerceMetric(raw.AddToCart)
	draft.Shares = coerceMetric(raw.Shares)

	// Orders may legitimately be free text, so the raw value is kept.
	draft.Orders = rawScalar(raw.Orders)

	// The total participates in sums and must always be numeric.
	draft.TotalAmount = models.NumberScalar(normalize.Number(raw.TotalAmount))

	return draft, parseFailures
}

func coerceMetric(c models.Cell) models.Scalar {
	if c.IsEmpty() {
		return models.TextScalar("")
	}
	return models.NumberScalar(normalize.Number(c))
}

func rawScalar(c models.Cell) models.Scalar {
	if c.IsEmpty() {
		return models.TextScalar("")
	}
	if c.Kind == models.CellNumber {
		return models.NumberScalar(c.Number)
	}
	return models.TextScalar(c.String())
}
