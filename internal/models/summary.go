package models

import (
	"math"
	"regexp"
	"strings"
)

// PlatformClass is the bucket a platform label falls into during aggregation.
type PlatformClass int

const (
	ClassNone PlatformClass = iota
	ClassTiktokOfficial
	ClassTiktokMall
	ClassTiktokThailand
	ClassShopee
)

var wsRun = regexp.MustCompile(`\s+`)

// NormalizeLabel trims and collapses whitespace runs, the canonical form for
// grouping keys (streamer names, platform labels).
func NormalizeLabel(s string) string {
	return wsRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ClassifyPlatform maps free-form platform text onto one of the four fixed
// buckets. Order matters: Official and Mall are tested before the generic
// tiktok fallthrough, which swallows every remaining tiktok variant into the
// Thailand bucket. Unrecognized text classifies as none and only counts
// toward the overall totals.
func ClassifyPlatform(platform string) PlatformClass {
	p := strings.ToLower(NormalizeLabel(platform))
	switch {
	case p == "":
		return ClassNone
	case strings.Contains(p, "tiktok") && strings.Contains(p, "official"):
		return ClassTiktokOfficial
	case strings.Contains(p, "tiktok") && strings.Contains(p, "mall"):
		return ClassTiktokMall
	case strings.Contains(p, "tiktok"):
		return ClassTiktokThailand
	case strings.Contains(p, "shopee"):
		return ClassShopee
	}
	return ClassNone
}

// Bucket accumulates elapsed minutes and monetary total for one platform.
type Bucket struct {
	TimeMinutes int     `json:"time"`
	Total       float64 `json:"total"`
}

// PlatformTotals is the fixed set of named platform buckets.
type PlatformTotals struct {
	TiktokOfficial Bucket `json:"Tiktok Official"`
	TiktokMall     Bucket `json:"Tiktok Mall"`
	TiktokThailand Bucket `json:"Tiktok Thailand"`
	Shopee         Bucket `json:"Shopee"`
}

func (pt *PlatformTotals) bucket(class PlatformClass) *Bucket {
	switch class {
	case ClassTiktokOfficial:
		return &pt.TiktokOfficial
	case ClassTiktokMall:
		return &pt.TiktokMall
	case ClassTiktokThailand:
		return &pt.TiktokThailand
	case ClassShopee:
		return &pt.Shopee
	}
	return nil
}

// SummaryEntry carries the counters for one streamer, or for the grand total.
type SummaryEntry struct {
	AllTime     int            `json:"allTime"`
	AllTimeLive int            `json:"allTimeLive"`
	Platforms   PlatformTotals `json:"platforms"`
	TotalSum    float64        `json:"totalSum"`
	TotalTime   int            `json:"totalTime"`
	AvgHourly   float64        `json:"avgHourly"`
}

// IncRecord folds one record's contribution into the entry. The named bucket
// is only touched when the platform classified; the overall counters always
// move, so the grand totals stay complete regardless of classification.
func (e *SummaryEntry) IncRecord(minutes int, amount float64, class PlatformClass, live bool) {
	e.AllTime++
	if live {
		e.AllTimeLive++
	}
	e.TotalTime += minutes
	e.TotalSum += amount

	if b := e.Platforms.bucket(class); b != nil {
		b.TimeMinutes += minutes
		b.Total += amount
	}
}

// FinalizeAvg computes the average hourly rate, 0 when no time accumulated.
func (e *SummaryEntry) FinalizeAvg() {
	if e.TotalTime == 0 {
		e.AvgHourly = 0
		return
	}
	e.AvgHourly = math.Round(e.TotalSum/(float64(e.TotalTime)/60)*100) / 100
}

// StreamerSummary is one per-streamer row of the report.
type StreamerSummary struct {
	Name string `json:"name"`
	SummaryEntry
}

// Summary is the full aggregation report: per-streamer rows sorted by name,
// plus the grand total covering every input record.
type Summary struct {
	Streamers []StreamerSummary `json:"streamers"`
	Total     SummaryEntry      `json:"total"`
}
