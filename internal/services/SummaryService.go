package services

import (
	"sort"
	"strings"

	"livestat/internal/models"
	"livestat/internal/normalize"
)

type SummaryServiceInterface interface {
	Summarize(records []models.LiveRecord) *models.Summary
}

type SummaryService struct {
}

func NewSummaryService() SummaryServiceInterface {
	return &SummaryService{}
}

// Summarize folds a record set into per-streamer rows plus a grand total.
// The grand total accumulates every record; the per-streamer rows only
// cover records that carry a streamer name. A record counts as a live
// session when both the streamer name and the platform are non-blank.
func (ss *SummaryService) Summarize(records []models.LiveRecord) *models.Summary {
	byName := make(map[string]*models.SummaryEntry)
	summary := &models.Summary{Streamers: []models.StreamerSummary{}}

	for _, r := range records {
		minutes := normalize.DurationMinutes(r.Duration)
		class := models.ClassifyPlatform(r.Platform)
		name := strings.TrimSpace(r.StreamerName)
		live := name != "" && strings.TrimSpace(r.Platform) != ""

		summary.Total.IncRecord(minutes, r.TotalAmount, class, live)

		if name == "" {
			continue
		}
		entry, ok := byName[name]
		if !ok {
			entry = &models.SummaryEntry{}
			byName[name] = entry
		}
		entry.IncRecord(minutes, r.TotalAmount, class, live)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := byName[name]
		entry.FinalizeAvg()
		summary.Streamers = append(summary.Streamers, models.StreamerSummary{
			Name:         name,
			SummaryEntry: *entry,
		})
	}
	summary.Total.FinalizeAvg()
	return summary
}
