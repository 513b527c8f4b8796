package models

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Scalar is a metric field that may be stored as a number or as text,
// depending on where the record came from. Manual entry keeps the raw text;
// spreadsheet import stores the coerced number. An empty Scalar marshals as
// "" so "no data" stays distinct from zero.
type Scalar struct {
	IsNumber bool
	Number   float64
	Text     string
}

func NumberScalar(n float64) Scalar { return Scalar{IsNumber: true, Number: n} }
func TextScalar(s string) Scalar    { return Scalar{Text: s} }

func (s Scalar) IsEmpty() bool {
	return !s.IsNumber && strings.TrimSpace(s.Text) == ""
}

func (s Scalar) String() string {
	if s.IsNumber {
		return strconv.FormatFloat(s.Number, 'f', -1, 64)
	}
	return s.Text
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.IsNumber {
		return json.Marshal(s.Number)
	}
	return json.Marshal(s.Text)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	t := strings.TrimSpace(string(data))
	if t == "null" {
		*s = Scalar{}
		return nil
	}
	if len(t) > 0 && t[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar{Text: str}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Scalar{IsNumber: true, Number: n}
	return nil
}

// LiveRecord is the canonical persisted shape of one live session.
// Date is "YYYY-MM-DD" or empty, start/end times are "HH:MM" or empty, and
// Duration is "H:MM" with an unpadded hour so it cannot be mistaken for a
// time of day.
type LiveRecord struct {
	Id            string  `json:"id"`
	Timestamp     string  `json:"timestamp"`
	StreamerName  string  `json:"streamerName"`
	Platform      string  `json:"platform"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Duration      string  `json:"duration"`
	CustomerReach Scalar  `json:"customerReach"`
	Likes         Scalar  `json:"likes"`
	Orders        Scalar  `json:"orders"`
	TotalAmount   float64 `json:"totalAmount"`
	AddToCart     Scalar  `json:"addToCart"`
	Shares        Scalar  `json:"shares"`
	ImageLink     string  `json:"imageLink"`
	Notes         string  `json:"notes"`
}

// Profile is a named partition of live records.
type Profile struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	RecordCount int    `json:"recordCount"`
}

// RecordDraft carries the user-editable fields of a record. Duration is only
// honored when marked trusted (import override); otherwise it is re-derived
// from the start and end times.
type RecordDraft struct {
	StreamerName    string `json:"streamerName"`
	Platform        string `json:"platform"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Duration        string `json:"duration"`
	DurationTrusted bool   `json:"-"`
	CustomerReach   Scalar `json:"customerReach"`
	Likes           Scalar `json:"likes"`
	Orders          Scalar `json:"orders"`
	TotalAmount     Scalar `json:"totalAmount"`
	AddToCart       Scalar `json:"addToCart"`
	Shares          Scalar `json:"shares"`
	ImageLink       string `json:"imageLink"`
	Notes           string `json:"notes"`
}
