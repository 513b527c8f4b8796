package services

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livestat/internal/models"
	"livestat/internal/structures"
	"livestat/internal/testutil"
)

func newTestService(store *testutil.MockStore, metrics *testutil.MockMetrics) RecordServiceInterface {
	conf := &structures.Config{
		Import: structures.ImportConfig{MaxRows: 100, MaxBodySize: 1 << 20},
	}
	return NewRecordService(conf, store, &testutil.MockLogger{}, metrics)
}

func TestProfiles_EmptyStore(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())
	profiles, err := rs.Profiles()
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestCreateProfile(t *testing.T) {
	store := testutil.NewMockStore()
	rs := newTestService(store, testutil.NewMockMetrics())

	profile, err := rs.CreateProfile("  Shop A  ", " main shop ")
	require.NoError(t, err)
	assert.Equal(t, "Shop A", profile.Name)
	assert.Equal(t, "main shop", profile.Description)
	assert.NotEmpty(t, profile.Id)
	assert.NotEmpty(t, profile.CreatedAt)

	profiles, err := rs.Profiles()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, profile.Id, profiles[0].Id)
}

func TestCreateProfile_RequiresName(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())
	_, err := rs.CreateProfile("   ", "")
	assert.Error(t, err)
}

func TestProfile_NotFound(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())
	_, err := rs.Profile("nope")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfile(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())
	created, err := rs.CreateProfile("Old", "")
	require.NoError(t, err)

	updated, err := rs.UpdateProfile(created.Id, "New", "desc")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = rs.UpdateProfile("missing", "X", "")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestDeleteProfile_Cascades(t *testing.T) {
	store := testutil.NewMockStore()
	rs := newTestService(store, testutil.NewMockMetrics())

	profile, err := rs.CreateProfile("P", "")
	require.NoError(t, err)
	_, err = rs.AddRecord(profile.Id, models.RecordDraft{StreamerName: "A"})
	require.NoError(t, err)

	require.NoError(t, rs.DeleteProfile(profile.Id))

	_, err = rs.Profile(profile.Id)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, ok := store.Data["live_stream_data_"+profile.Id]
	assert.False(t, ok)

	assert.ErrorIs(t, rs.DeleteProfile(profile.Id), ErrProfileNotFound)
}

func TestAddRecord_NormalizesAndCounts(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	rs := newTestService(testutil.NewMockStore(), metrics)

	profile, err := rs.CreateProfile("P", "")
	require.NoError(t, err)

	record, err := rs.AddRecord(profile.Id, models.RecordDraft{
		StreamerName: "Alice",
		Platform:     "Tiktok Official",
		Date:         "5/3/2024",
		StartTime:    "09:00",
		EndTime:      "10:10",
		TotalAmount:  models.TextScalar("1,500"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.Id)
	assert.Equal(t, "2024-03-05", record.Date)
	assert.Equal(t, "1:10", record.Duration)
	assert.Equal(t, 1500.0, record.TotalAmount)

	fresh, err := rs.Profile(profile.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.RecordCount)
	assert.Equal(t, 1, metrics.RecordTotals[profile.Id])
}

func TestRecords_SortedByDateEmptyFirst(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())

	for _, date := range []string{"2024-06-01", "", "2024-01-15"} {
		_, err := rs.AddRecord("p1", models.RecordDraft{Date: date})
		require.NoError(t, err)
	}

	records, err := rs.Records("p1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "", records[0].Date)
	assert.Equal(t, "2024-01-15", records[1].Date)
	assert.Equal(t, "2024-06-01", records[2].Date)
}

func TestFilteredRecords(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())

	_, err := rs.AddRecord("p1", models.RecordDraft{StreamerName: "Alice", Date: "2024-03-05"})
	require.NoError(t, err)
	_, err = rs.AddRecord("p1", models.RecordDraft{StreamerName: "Bob", Date: "2024-04-01"})
	require.NoError(t, err)

	records, err := rs.FilteredRecords("p1", models.Filter{StreamerName: "Alice"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].StreamerName)

	records, err = rs.FilteredRecords("p1", models.Filter{DateFrom: "2024-04-01"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bob", records[0].StreamerName)
}

func TestUpdateRecord_RederivesDuration(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())

	record, err := rs.AddRecord("p1", models.RecordDraft{StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "1:00", record.Duration)

	updated, err := rs.UpdateRecord("p1", record.Id, models.RecordDraft{StartTime: "09:00", EndTime: "12:30"})
	require.NoError(t, err)
	assert.Equal(t, "3:30", updated.Duration)
	assert.Equal(t, record.Timestamp, updated.Timestamp)

	_, err = rs.UpdateRecord("p1", "missing", models.RecordDraft{})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())

	record, err := rs.AddRecord("p1", models.RecordDraft{StreamerName: "A"})
	require.NoError(t, err)
	require.NoError(t, rs.DeleteRecord("p1", record.Id))

	records, err := rs.Records("p1")
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.ErrorIs(t, rs.DeleteRecord("p1", record.Id), ErrRecordNotFound)
}

func TestDeleteAllRecords(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	rs := newTestService(testutil.NewMockStore(), metrics)

	_, err := rs.AddRecord("p1", models.RecordDraft{})
	require.NoError(t, err)
	_, err = rs.AddRecord("p1", models.RecordDraft{})
	require.NoError(t, err)

	require.NoError(t, rs.DeleteAllRecords("p1"))
	records, err := rs.Records("p1")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, metrics.RecordTotals["p1"])
}

func TestImportRows(t *testing.T) {
	metrics := testutil.NewMockMetrics()
	rs := newTestService(testutil.NewMockStore(), metrics)

	rows := []models.Row{
		{
			"ชื่อผู้ไลฟ์":     models.TextCell("Alice"),
			"Platform":        models.TextCell("Tiktok Official"),
			"วันที่":          models.NumberCell(45000),
			"เวลาเริ่ม  Live": models.TextCell("09:00"),
			"เวลาจบ Live":     models.TextCell("10:10"),
			"ยอดรวม":          models.TextCell("1,500"),
		},
		{}, // fully empty rows are skipped
		{
			"Streamer Name": models.TextCell("Bob"),
			"Date":          models.TextCell("not a date"),
		},
	}

	imported, failures, err := rs.ImportRows("p1", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 2, metrics.ImportRows)
	assert.Equal(t, 1, metrics.ParseFailures)

	records, err := rs.Records("p1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ids must stay unique within one batch.
	assert.NotEqual(t, records[0].Id, records[1].Id)
}

func TestImportRows_MaxRowsLimit(t *testing.T) {
	conf := &structures.Config{Import: structures.ImportConfig{MaxRows: 1}}
	rs := NewRecordService(conf, testutil.NewMockStore(), &testutil.MockLogger{}, testutil.NewMockMetrics())

	_, _, err := rs.ImportRows("p1", []models.Row{{}, {}})
	assert.Error(t, err)
}

func TestProfileStats(t *testing.T) {
	rs := newTestService(testutil.NewMockStore(), testutil.NewMockMetrics())

	_, err := rs.AddRecord("p1", models.RecordDraft{
		StreamerName: "Alice", Platform: "Shopee",
		Orders: models.NumberScalar(5), TotalAmount: models.NumberScalar(100),
	})
	require.NoError(t, err)
	_, err = rs.AddRecord("p1", models.RecordDraft{
		StreamerName: "Alice", Platform: "Tiktok Official",
		Orders: models.TextScalar("7"), TotalAmount: models.NumberScalar(50),
	})
	require.NoError(t, err)

	stats, err := rs.ProfileStats("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.UniqueStreamers)
	assert.Equal(t, 12, stats.TotalOrders)
	assert.Equal(t, 150.0, stats.TotalAmount)
	assert.Equal(t, []string{"Shopee", "Tiktok Official"}, stats.Platforms)
}

func TestPersistedShape(t *testing.T) {
	store := testutil.NewMockStore()
	rs := newTestService(store, testutil.NewMockMetrics())

	_, err := rs.AddRecord("p1", models.RecordDraft{StreamerName: "Alice"})
	require.NoError(t, err)

	raw, ok := store.Data["live_stream_data_p1"]
	require.True(t, ok)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Alice", decoded[0]["streamerName"])
	assert.Contains(t, decoded[0], "totalAmount")
	assert.Contains(t, decoded[0], "customerReach")
}
