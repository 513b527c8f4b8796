package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"livestat/internal/importer"
	"livestat/internal/models"
	"livestat/internal/normalize"
	"livestat/internal/providers"
	"livestat/internal/storage"
	"livestat/internal/structures"
)

const (
	profilesKey    = "live_stream_profiles"
	recordsKeyBase = "live_stream_data"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrRecordNotFound  = errors.New("record not found")
)

type RecordServiceInterface interface {
	Profiles() ([]models.Profile, error)
	Profile(id string) (models.Profile, error)
	CreateProfile(name, description string) (models.Profile, error)
	UpdateProfile(id, name, description string) (models.Profile, error)
	DeleteProfile(id string) error
	Records(profileId string) ([]models.LiveRecord, error)
	FilteredRecords(profileId string, filter models.Filter) ([]models.LiveRecord, error)
	AddRecord(profileId string, draft models.RecordDraft) (models.LiveRecord, error)
	UpdateRecord(profileId, recordId string, draft models.RecordDraft) (models.LiveRecord, error)
	DeleteRecord(profileId, recordId string) error
	DeleteAllRecords(profileId string) error
	ImportRows(profileId string, rows []models.Row) (imported int, failures int, err error)
	ProfileStats(profileId string) (models.ProfileStats, error)
}

type RecordService struct {
	store   storage.KeyValueStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	conf    *structures.Config
}

func NewRecordService(conf *structures.Config, store storage.KeyValueStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) RecordServiceInterface {
	return &RecordService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		conf:    conf,
	}
}

func recordsKey(profileId string) string {
	return recordsKeyBase + "_" + profileId
}

func (rs *RecordService) loadProfiles() ([]models.Profile, error) {
	data, found, err := rs.store.Get(profilesKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	if err = json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (rs *RecordService) saveProfiles(profiles []models.Profile) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	start := time.Now()
	err = rs.store.Set(profilesKey, data)
	rs.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func (rs *RecordService) loadRecords(profileId string) ([]models.LiveRecord, error) {
	data, found, err := rs.store.Get(recordsKey(profileId))
	if err != nil {
		return nil, err
	}
	if !found {
		return []models.LiveRecord{}, nil
	}
	var records []models.LiveRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (rs *RecordService) saveRecords(profileId string, records []models.LiveRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	start := time.Now()
	err = rs.store.Set(recordsKey(profileId), data)
	rs.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

// touchProfile refreshes the denormalized record count after a record
// mutation. A missing profile is not an error here: records for unknown
// profiles are legal at the storage layer.
func (rs *RecordService) touchProfile(profileId string, count int) {
	rs.metrics.SetRecordsTotal(profileId, count)

	profiles, err := rs.loadProfiles()
	if err != nil {
		rs.logger.Errorf(providers.TypeApp, "touch profile %s: %v", profileId, err)
		return
	}
	for i := range profiles {
		if profiles[i].Id == profileId {
			profiles[i].RecordCount = count
			profiles[i].UpdatedAt = time.Now().Format(time.RFC3339)
			if err = rs.saveProfiles(profiles); err != nil {
				rs.logger.Errorf(providers.TypeApp, "touch profile %s: %v", profileId, err)
			}
			return
		}
	}
}

func (rs *RecordService) Profiles() ([]models.Profile, error) {
	return rs.loadProfiles()
}

func (rs *RecordService) Profile(id string) (models.Profile, error) {
	profiles, err := rs.loadProfiles()
	if err != nil {
		return models.Profile{}, err
	}
	for _, p := range profiles {
		if p.Id == id {
			return p, nil
		}
	}
	return models.Profile{}, ErrProfileNotFound
}

func (rs *RecordService) CreateProfile(name, description string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, fmt.Errorf("profile name is required")
	}

	profiles, err := rs.loadProfiles()
	if err != nil {
		return models.Profile{}, err
	}

	now := time.Now()
	profile := models.Profile{
		Id:          "profile_" + strconv.FormatInt(now.UnixNano(), 10),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}
	profiles = append(profiles, profile)

	if err = rs.saveProfiles(profiles); err != nil {
		return models.Profile{}, err
	}
	rs.logger.Infof(providers.TypeApp, "created profile %s (%s)", profile.Id, profile.Name)
	return profile, nil
}

func (rs *RecordService) UpdateProfile(id, name, description string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, fmt.Errorf("profile name is required")
	}

	profiles, err := rs.loadProfiles()
	if err != nil {
		return models.Profile{}, err
	}
	for i := range profiles {
		if profiles[i].Id == id {
			profiles[i].Name = name
			profiles[i].Description = strings.TrimSpace(description)
			profiles[i].UpdatedAt = time.Now().Format(time.RFC3339)
			if err = rs.saveProfiles(profiles); err != nil {
				return models.Profile{}, err
			}
			return profiles[i], nil
		}
	}
	return models.Profile{}, ErrProfileNotFound
}

// DeleteProfile removes the profile and its record set in one operation, so
// a deleted profile never leaves orphaned data behind.
func (rs *RecordService) DeleteProfile(id string) error {
	profiles, err := rs.loadProfiles()
	if err != nil {
		return err
	}

	idx := -1
	for i := range profiles {
		if profiles[i].Id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrProfileNotFound
	}

	profiles = append(profiles[:idx], profiles[idx+1:]...)
	if err = rs.saveProfiles(profiles); err != nil {
		return err
	}
	if err = rs.store.Delete(recordsKey(id)); err != nil {
		return err
	}
	rs.metrics.SetRecordsTotal(id, 0)
	rs.logger.Infof(providers.TypeApp, "deleted profile %s", id)
	return nil
}

func (rs *RecordService) Records(profileId string) ([]models.LiveRecord, error) {
	records, err := rs.loadRecords(profileId)
	if err != nil {
		return nil, err
	}
	// Canonical dates compare lexicographically; blank dates sort first.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	return records, nil
}

func (rs *RecordService) FilteredRecords(profileId string, filter models.Filter) ([]models.LiveRecord, error) {
	records, err := rs.Records(profileId)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return records, nil
	}
	filtered := make([]models.LiveRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// materialize turns a draft into a persisted record shape. The duration is
// re-derived from the start and end times unless the draft carries a trusted
// value, which only imports do.
func materialize(id, timestamp string, draft models.RecordDraft) models.LiveRecord {
	date := normalize.Date(models.TextCell(draft.Date))

	duration := draft.Duration
	if !draft.DurationTrusted {
		duration = normalize.Duration(models.TextCell(draft.StartTime), models.TextCell(draft.EndTime))
	}

	var amount float64
	if draft.TotalAmount.IsNumber {
		amount = draft.TotalAmount.Number
	} else {
		amount = normalize.Number(models.TextCell(draft.TotalAmount.Text))
	}

	return models.LiveRecord{
		Id:            id,
		Timestamp:     timestamp,
		StreamerName:  draft.StreamerName,
		Platform:      draft.Platform,
		Date:          date,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		Duration:      duration,
		CustomerReach: draft.CustomerReach,
		Likes:         draft.Likes,
		Orders:        draft.Orders,
		TotalAmount:   amount,
		AddToCart:     draft.AddToCart,
		Shares:        draft.Shares,
		ImageLink:     draft.ImageLink,
		Notes:         draft.Notes,
	}
}

func (rs *RecordService) AddRecord(profileId string, draft models.RecordDraft) (models.LiveRecord, error) {
	records, err := rs.loadRecords(profileId)
	if err != nil {
		return models.LiveRecord{}, err
	}

	now := time.Now()
	record := materialize(strconv.FormatInt(now.UnixNano(), 10), now.Format(time.RFC3339), draft)
	records = append(records, record)

	if err = rs.saveRecords(profileId, records); err != nil {
		return models.LiveRecord{}, err
	}
	rs.touchProfile(profileId, len(records))
	return record, nil
}

func (rs *RecordService) UpdateRecord(profileId, recordId string, draft models.RecordDraft) (models.LiveRecord, error) {
	records, err := rs.loadRecords(profileId)
	if err != nil {
		return models.LiveRecord{}, err
	}

	for i := range records {
		if records[i].Id == recordId {
			record := materialize(recordId, records[i].Timestamp, draft)
			records[i] = record
			if err = rs.saveRecords(profileId, records); err != nil {
				return models.LiveRecord{}, err
			}
			rs.touchProfile(profileId, len(records))
			return record, nil
		}
	}
	return models.LiveRecord{}, ErrRecordNotFound
}

func (rs *RecordService) DeleteRecord(profileId, recordId string) error {
	records, err := rs.loadRecords(profileId)
	if err != nil {
		return err
	}

	idx := -1
	for i := range records {
		if records[i].Id == recordId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrRecordNotFound
	}

	records = append(records[:idx], records[idx+1:]...)
	if err = rs.saveRecords(profileId, records); err != nil {
		return err
	}
	rs.touchProfile(profileId, len(records))
	return nil
}

func (rs *RecordService) DeleteAllRecords(profileId string) error {
	if err := rs.saveRecords(profileId, []models.LiveRecord{}); err != nil {
		return err
	}
	rs.touchProfile(profileId, 0)
	return nil
}

func (rs *RecordService) ImportRows(profileId string, rows []models.Row) (int, int, error) {
	if rs.conf.Import.MaxRows > 0 && len(rows) > rs.conf.Import.MaxRows {
		return 0, 0, fmt.Errorf("import of %d rows exceeds limit of %d", len(rows), rs.conf.Import.MaxRows)
	}

	records, err := rs.loadRecords(profileId)
	if err != nil {
		return 0, 0, err
	}

	imported := 0
	failures := 0
	now := time.Now()
	for i, row := range rows {
		raw := importer.Resolve(row)
		if emptyRow(raw) {
			continue
		}
		draft, parseFailures := importer.BuildRecord(raw)
		failures += parseFailures
		// Offset keeps ids unique within one batch.
		id := strconv.FormatInt(now.UnixNano()+int64(i), 10)
		records = append(records, materialize(id, now.Format(time.RFC3339), draft))
		imported++
	}

	if imported > 0 {
		if err = rs.saveRecords(profileId, records); err != nil {
			return 0, failures, err
		}
		rs.touchProfile(profileId, len(records))
	}
	rs.metrics.AddImportRows(imported)
	rs.metrics.AddParseFailures(failures)
	rs.logger.Infof(providers.TypeApp, "imported %d rows into %s (%d parse failures)", imported, profileId, failures)
	return imported, failures, nil
}

func emptyRow(raw importer.RawFields) bool {
	cells := []models.Cell{
		raw.StreamerName, raw.Platform, raw.Date, raw.StartTime, raw.EndTime,
		raw.Duration, raw.CustomerReach, raw.Likes, raw.Orders, raw.TotalAmount,
		raw.AddToCart, raw.Shares, raw.ImageLink, raw.Notes,
	}
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

func (rs *RecordService) ProfileStats(profileId string) (models.ProfileStats, error) {
	records, err := rs.loadRecords(profileId)
	if err != nil {
		return models.ProfileStats{}, err
	}

	stats := models.ProfileStats{
		TotalRecords: len(records),
		Platforms:    []string{},
	}
	streamers := map[string]struct{}{}
	platforms := map[string]struct{}{}
	orders := 0.0
	for _, r := range records {
		if name := models.NormalizeLabel(r.StreamerName); name != "" {
			streamers[name] = struct{}{}
		}
		if platform := models.NormalizeLabel(r.Platform); platform != "" {
			platforms[platform] = struct{}{}
		}
		orders += normalize.Number(models.TextCell(r.Orders.String()))
		stats.TotalAmount += r.TotalAmount
	}
	stats.UniqueStreamers = len(streamers)
	stats.TotalOrders = int(orders)
	for platform := range platforms {
		stats.Platforms = append(stats.Platforms, platform)
	}
	sort.Strings(stats.Platforms)
	return stats, nil
}
