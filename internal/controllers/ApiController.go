package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"livestat/internal/models"
	"livestat/internal/normalize"
	"livestat/internal/providers"
	"livestat/internal/services"
	"livestat/internal/structures"
)

type ApiController struct {
	logger  providers.Logger
	records services.RecordServiceInterface
	summary services.SummaryServiceInterface
	cache   providers.CacheProviderInterface
	conf    *structures.Config
}

func NewApiController(conf *structures.Config, logger providers.Logger, records services.RecordServiceInterface, summary services.SummaryServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		records: records,
		summary: summary,
		cache:   cache,
		conf:    conf,
	}
}

type profilePayload struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type recordPayload struct {
	Id string `json:"id"`
	models.RecordDraft
}

type importPayload struct {
	Rows []models.Row `json:"rows"`
}

func getProfile(r *http.Request) string {
	return r.URL.Query().Get("profile")
}

func getFilter(r *http.Request) models.Filter {
	q := r.URL.Query()
	return models.Filter{
		StreamerName: q.Get("streamerName"),
		Platform:     q.Get("platform"),
		DateFrom:     q.Get("dateFrom"),
		DateTo:       q.Get("dateTo"),
		Search:       q.Get("search"),
	}
}

func summaryCacheKey(profileId string) string {
	return "summary:" + profileId
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProfileNotFound), errors.Is(err, services.ErrRecordNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, ac.conf.Import.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, err := ac.records.Profiles()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, profiles)
}

func (ac *ApiController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if !ac.decode(w, r, &payload) {
		return
	}
	profile, err := ac.records.CreateProfile(payload.Name, payload.Description)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.writeJSON(w, http.StatusCreated, profile)
}

func (ac *ApiController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if !ac.decode(w, r, &payload) {
		return
	}
	profile, err := ac.records.UpdateProfile(payload.Id, payload.Name, payload.Description)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
		} else {
			http.Error(w, "Bad Request", http.StatusBadRequest)
		}
		return
	}
	ac.writeJSON(w, http.StatusOK, profile)
}

func (ac *ApiController) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if !ac.decode(w, r, &payload) {
		return
	}
	if err := ac.records.DeleteProfile(payload.Id); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del(summaryCacheKey(payload.Id))
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetProfileStats(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	stats, err := ac.records.ProfileStats(profileId)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, stats)
}

func (ac *ApiController) GetRecords(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	records, err := ac.records.FilteredRecords(profileId, getFilter(r))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	if r.URL.Query().Get("view") == "display" {
		ac.writeJSON(w, http.StatusOK, displayRecords(records))
		return
	}
	ac.writeJSON(w, http.StatusOK, records)
}

// displayRecord is a record pre-rendered for the reporting screens: dates in
// the legacy "DD-MM-YY" form, metrics grouped, durations with the round-up
// arrow applied.
type displayRecord struct {
	Id            string `json:"id"`
	StreamerName  string `json:"streamerName"`
	Platform      string `json:"platform"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Duration      string `json:"duration"`
	CustomerReach string `json:"customerReach"`
	Likes         string `json:"likes"`
	Orders        string `json:"orders"`
	TotalAmount   string `json:"totalAmount"`
	AddToCart     string `json:"addToCart"`
	Shares        string `json:"shares"`
	ImageLink     string `json:"imageLink"`
	Notes         string `json:"notes"`
}

func displayRecords(records []models.LiveRecord) []displayRecord {
	out := make([]displayRecord, 0, len(records))
	for _, r := range records {
		duration, _ := normalize.FormatDurationWithRounding(r.Duration)
		out = append(out, displayRecord{
			Id:            r.Id,
			StreamerName:  r.StreamerName,
			Platform:      r.Platform,
			Date:          normalize.FormatDisplayDate(r.Date),
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			Duration:      duration,
			CustomerReach: normalize.FormatNumber(r.CustomerReach),
			Likes:         normalize.FormatNumber(r.Likes),
			Orders:        normalize.FormatNumber(r.Orders),
			TotalAmount:   normalize.FormatNumber(models.NumberScalar(r.TotalAmount)),
			AddToCart:     normalize.FormatNumber(r.AddToCart),
			Shares:        normalize.FormatNumber(r.Shares),
			ImageLink:     r.ImageLink,
			Notes:         r.Notes,
		})
	}
	return out
}

func (ac *ApiController) AddRecord(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var payload recordPayload
	if !ac.decode(w, r, &payload) {
		return
	}
	record, err := ac.records.AddRecord(profileId, payload.RecordDraft)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del(summaryCacheKey(profileId))
	ac.writeJSON(w, http.StatusCreated, record)
}

func (ac *ApiController) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var payload recordPayload
	if !ac.decode(w, r, &payload) {
		return
	}
	record, err := ac.records.UpdateRecord(profileId, payload.Id, payload.RecordDraft)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del(summaryCacheKey(profileId))
	ac.writeJSON(w, http.StatusOK, record)
}

func (ac *ApiController) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var payload recordPayload
	if !ac.decode(w, r, &payload) {
		return
	}
	if err := ac.records.DeleteRecord(profileId, payload.Id); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del(summaryCacheKey(profileId))
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ClearRecords(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.records.DeleteAllRecords(profileId); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del(summaryCacheKey(profileId))
	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported      int `json:"imported"`
	ParseFailures int `json:"parseFailures"`
}

func (ac *ApiController) ImportRows(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	var payload importPayload
	if !ac.decode(w, r, &payload) {
		return
	}
	imported, failures, err := ac.records.ImportRows(profileId, payload.Rows)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.cache.Del(summaryCacheKey(profileId))
	ac.writeJSON(w, http.StatusCreated, importResponse{Imported: imported, ParseFailures: failures})
}

// GetSummary serves the aggregated report. Only the unfiltered report is
// cached; record mutations drop the cached entry so a fresh read never
// trails a write.
func (ac *ApiController) GetSummary(w http.ResponseWriter, r *http.Request) {
	profileId := getProfile(r)
	if profileId == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	filter := getFilter(r)
	display := r.URL.Query().Get("view") == "display"
	compute := func() (any, error) {
		records, err := ac.records.FilteredRecords(profileId, filter)
		if err != nil {
			return nil, err
		}
		summary := ac.summary.Summarize(records)
		if display {
			return displaySummary(summary), nil
		}
		return summary, nil
	}

	if !filter.IsZero() || display {
		result, err := compute()
		if err != nil {
			ac.writeError(w, err)
			return
		}
		ac.writeJSON(w, http.StatusOK, result)
		return
	}

	ac.serveFromCacheOrCompute(w, summaryCacheKey(profileId), compute)
}

// summaryDisplayRow is one pre-rendered row of the report table.
type summaryDisplayRow struct {
	Name      string `json:"name"`
	AllTime   int    `json:"allTime"`
	TotalTime string `json:"totalTime"`
	TotalSum  string `json:"totalSum"`
	AvgHourly string `json:"avgHourly"`
}

type summaryDisplay struct {
	Streamers []summaryDisplayRow `json:"streamers"`
	Total     summaryDisplayRow   `json:"total"`
}

func displayEntry(name string, e models.SummaryEntry) summaryDisplayRow {
	return summaryDisplayRow{
		Name:      name,
		AllTime:   e.AllTime,
		TotalTime: normalize.MinutesClock(e.TotalTime),
		TotalSum:  normalize.FormatNumber(models.NumberScalar(e.TotalSum)),
		AvgHourly: normalize.FormatNumber(models.NumberScalar(e.AvgHourly)),
	}
}

func displaySummary(s *models.Summary) summaryDisplay {
	out := summaryDisplay{
		Streamers: make([]summaryDisplayRow, 0, len(s.Streamers)),
		Total:     displayEntry("", s.Total),
	}
	for _, row := range s.Streamers {
		out.Streamers = append(out.Streamers, displayEntry(row.Name, row.SummaryEntry))
	}
	return out
}
