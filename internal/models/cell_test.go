package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_IsEmpty(t *testing.T) {
	assert.True(t, Cell{}.IsEmpty())
	assert.True(t, TextCell("").IsEmpty())
	assert.True(t, TextCell("   ").IsEmpty())
	assert.False(t, TextCell("x").IsEmpty())
	assert.False(t, NumberCell(0).IsEmpty())
	assert.False(t, InstantCell(time.Time{}).IsEmpty())
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "  raw  ", TextCell("  raw  ").String())
	assert.Equal(t, "42", NumberCell(42).String())
	assert.Equal(t, "42.5", NumberCell(42.5).String())
	assert.Equal(t, "", Cell{}.String())
}

func TestCell_UnmarshalNull(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.Equal(t, CellAbsent, c.Kind)
}

func TestCell_UnmarshalNumber(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`0.75`), &c))
	assert.Equal(t, CellNumber, c.Kind)
	assert.Equal(t, 0.75, c.Number)
}

func TestCell_UnmarshalTimestampString(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T18:45:00Z"`), &c))
	require.Equal(t, CellInstant, c.Kind)
	assert.Equal(t, 18, c.Instant.Hour())
}

func TestCell_UnmarshalPlainString(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`"Tiktok Mall"`), &c))
	assert.Equal(t, CellText, c.Kind)
	assert.Equal(t, "Tiktok Mall", c.Text)
}

func TestCell_UnmarshalStringWithTIsNotInstant(t *testing.T) {
	// A "T" alone does not make a timestamp.
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`"Team A"`), &c))
	assert.Equal(t, CellText, c.Kind)
}

func TestCell_UnmarshalBool(t *testing.T) {
	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`true`), &c))
	assert.Equal(t, CellText, c.Kind)
	assert.Equal(t, "true", c.Text)
}

func TestRow_Unmarshal(t *testing.T) {
	var row Row
	payload := `{"วันที่": 45000, "Platform": "Shopee", "Notes": null}`
	require.NoError(t, json.Unmarshal([]byte(payload), &row))
	assert.Equal(t, CellNumber, row["วันที่"].Kind)
	assert.Equal(t, CellText, row["Platform"].Kind)
	assert.Equal(t, CellAbsent, row["Notes"].Kind)
}
