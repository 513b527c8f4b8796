package models

import (
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
	CellInstant
)

// Cell is a single spreadsheet cell as delivered by the row source.
// Exactly one of Text, Number or Instant is meaningful, selected by Kind.
type Cell struct {
	Kind    CellKind
	Text    string
	Number  float64
	Instant time.Time
}

// Row maps a free-form column label to its cell value.
type Row map[string]Cell

func TextCell(s string) Cell       { return Cell{Kind: CellText, Text: s} }
func NumberCell(n float64) Cell    { return Cell{Kind: CellNumber, Number: n} }
func InstantCell(t time.Time) Cell { return Cell{Kind: CellInstant, Instant: t} }

// IsEmpty reports whether the cell carries no usable value: absent cells and
// whitespace-only text. Numbers and instants are never empty — zero is a
// meaningful value for both.
func (c Cell) IsEmpty() bool {
	switch c.Kind {
	case CellAbsent:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	}
	return false
}

// String renders the cell for verbatim storage. Text is returned un-trimmed,
// numbers without a trailing ".0" for integral values.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellInstant:
		return c.Instant.Format(time.RFC3339)
	}
	return ""
}

// UnmarshalJSON maps wire values onto the union: null → absent, numbers →
// number, strings that carry an RFC 3339 timestamp → instant, anything else →
// text. Booleans are stringified, matching how unexpected cell types behave
// on spreadsheet import.
func (c *Cell) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = Cell{Kind: CellAbsent}
		return nil
	}

	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if strings.Contains(str, "T") {
			if t, err := time.Parse(time.RFC3339, str); err == nil {
				*c = Cell{Kind: CellInstant, Instant: t}
				return nil
			}
		}
		*c = Cell{Kind: CellText, Text: str}
		return nil
	}

	if s == "true" || s == "false" {
		*c = Cell{Kind: CellText, Text: s}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Cell{Kind: CellNumber, Number: n}
	return nil
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellAbsent:
		return []byte("null"), nil
	case CellNumber:
		return json.Marshal(c.Number)
	case CellInstant:
		return json.Marshal(c.Instant.Format(time.RFC3339))
	}
	return json.Marshal(c.Text)
}
