package importer

import (
	"regexp"
	"strings"

	"livestat/internal/models"
)

// RawFields holds the resolved but not yet normalized cells of one row.
type RawFields struct {
	StreamerName  models.Cell
	Platform      models.Cell
	Date          models.Cell
	StartTime     models.Cell
	EndTime       models.Cell
	Duration      models.Cell
	CustomerReach models.Cell
	Likes         models.Cell
	Orders        models.Cell
	TotalAmount   models.Cell
	AddToCart     models.Cell
	Shares        models.Cell
	ImageLink     models.Cell
	Notes         models.Cell
}

var wsRun = regexp.MustCompile(`\s+`)

func collapseWS(s string) string {
	return wsRun.ReplaceAllString(s, " ")
}

func stripWS(s string) string {
	return wsRun.ReplaceAllString(s, "")
}

// missing reports whether a resolved cell should trigger the next fallback:
// absent cells and whitespace-only text. Numbers and instants always count
// as found.
func missing(c models.Cell) bool {
	return c.Kind == models.CellAbsent ||
		(c.Kind == models.CellText && strings.TrimSpace(c.Text) == "")
}

// pickValue returns the first non-empty cell among the candidate labels, in
// the caller's priority order. A label that misses on exact lookup and
// contains a space is retried with whitespace runs collapsed on both sides,
// because historical exports disagree about spacing inside headers. Numbers
// and instants are returned as-is so normalizers keep full type fidelity;
// text comes back verbatim, un-trimmed.
func pickValue(row models.Row, labels ...string) models.Cell {
	for _, label := range labels {
		c, ok := row[label]
		if !ok && strings.Contains(label, " ") {
			want := collapseWS(label)
			for k, v := range row {
				if collapseWS(k) == want {
					c, ok = v, true
					break
				}
			}
		}
		if !ok {
			continue
		}

		switch c.Kind {
		case models.CellInstant, models.CellNumber:
			return c
		case models.CellText:
			if c.Text != "" {
				return c
			}
		}
	}
	return models.Cell{Kind: models.CellAbsent}
}

// findKey scans row labels with a predicate, for the fields whose historical
// headers drifted too far for candidate lists.
func findKey(row models.Row, pred func(string) bool) (models.Cell, bool) {
	for k, v := range row {
		if pred(k) {
			return v, true
		}
	}
	return models.Cell{}, false
}

// Resolve maps one raw row onto the canonical field set. The per-field probe
// order is deliberate: several fields check known legacy headers first —
// including ones with irregular spacing or truncated text from old
// spreadsheet exports — before falling back to the generic candidate lists.
func Resolve(row models.Row) RawFields {
	var f RawFields

	f.StreamerName = pickValue(row, "ชื่อผู้ไลฟ์", "Streamer Name", "streamerName", "ชื่อ")
	f.Platform = pickValue(row, "Platform", "platform", "แพลตฟอร์ม")
	f.Date = resolveDate(row)
	f.StartTime = resolveStartTime(row)
	f.EndTime = resolveEndTime(row)
	f.Duration = resolveDuration(row)
	f.CustomerReach = pickValue(row, "การเข้าถึงของลูกค้า", "Customer Reach", "การเข้าถึง", "customerReach", "การเข้าถึงลูกค้า")
	f.Likes = resolveLikes(row)
	f.Orders = resolveOrders(row)
	f.TotalAmount = resolveTotalAmount(row)
	f.AddToCart = pickValue(row, "ยอดการกดลงในตะกร้า", "ยอดการกดลงตะกร้า", "Add to Cart", "การกดลงตะกร้า", "addToCart", "ตะกร้า")
	f.Shares = pickValue(row, "ยอดการกดแชร์", "Shares", "shares", "แชร์")
	f.ImageLink = pickValue(row, "แนบ รูป", "แนบรูป", "Image Link", "imageLink", "ลิงก์รูป")
	f.Notes = pickValue(row, "หมายเหตุ", "Notes", "notes", "หมายเหตุ (ผู้ทำสถิติ)")

	return f
}

func resolveDate(row models.Row) models.Cell {
	c := row["วันที่"]
	if !missing(c) {
		return c
	}

	// Some exports carry the header with stray whitespace or the final
	// character truncated.
	if v, ok := findKey(row, func(k string) bool {
		return stripWS(k) == "วันที่" || strings.TrimSpace(k) == "วันที่" || k == "วันที"
	}); ok && !missing(v) {
		return v
	}

	return pickValue(row, "วันที", "Date", "date", "วันที่ไลฟ์")
}

func resolveStartTime(row models.Row) models.Cell {
	// The most common export writes two spaces between the words.
	c := row["เวลาเริ่ม  Live"]
	if missing(c) {
		c = row["เวลาเริ่ม Live"]
	}
	if !missing(c) {
		return c
	}

	if v, ok := findKey(row, func(k string) bool {
		return strings.Contains(k, "เวลาเริ่ม") && strings.Contains(strings.ToLower(k), "live")
	}); ok && !missing(v) {
		return v
	}

	return pickValue(row, "Start Time Live", "เวลาเริ่ม", "Start Time", "startTime", "startTimeLive")
}

func resolveEndTime(row models.Row) models.Cell {
	c := row["เวลาจบ Live"]
	if missing(c) {
		c = row["เวลาหยุด Live"]
	}
	if !missing(c) {
		return c
	}
	return pickValue(row, "เวลาหยุด Live", "End Time Live", "เวลาหยุด", "End Time", "endTime", "endTimeLive")
}

func resolveDuration(row models.Row) models.Cell {
	// Known truncated header from an old export, probed verbatim.
	c := row["ระยะเวลาในการ Live ทั้งหมดกี่ชั้วโมง ("]
	if !missing(c) {
		return c
	}
	return pickValue(row, "ระยะเวลาในการ Live ทั้งหมดก็ชั่วโมง", "ระยะเวลาในการ Live", "ระยะเวลา", "Duration", "duration", "ชั่วโมง")
}

func resolveLikes(row models.Row) models.Cell {
	c := row["ยอดกดถูกใจ"]
	if !missing(c) {
		return c
	}

	if v, ok := findKey(row, func(k string) bool {
		return stripWS(k) == "ยอดกดถูกใจ" || strings.TrimSpace(k) == "ยอดกดถูกใจ" ||
			strings.Contains(k, "ยอดกดถูกใจ") || strings.Contains(k, "ถูกใจ")
	}); ok && !missing(v) {
		return v
	}

	return pickValue(row, "Likes", "likes", "ถูกใจ")
}

func resolveOrders(row models.Row) models.Cell {
	c := row["ยอดการสั่งซื้อ (เช็คระบบหลังบ้าน)"]
	if !missing(c) {
		return c
	}
	return pickValue(row, "การสั่งซื้อ (เช็คระบบหลัง)", "การสั่งซื้อ", "Orders", "orders", "สั่งซื้อ")
}

func resolveTotalAmount(row models.Row) models.Cell {
	c := row["ยอดรวม"]
	if !missing(c) {
		return c
	}

	if v, ok := findKey(row, func(k string) bool {
		return stripWS(k) == "ยอดรวม" || strings.TrimSpace(k) == "ยอดรวม"
	}); ok && !missing(v) {
		return v
	}

	return pickValue(row, "Total Amount", "totalAmount")
}
