package models

// ProfileStats is the quick per-profile overview block.
type ProfileStats struct {
	TotalRecords    int      `json:"totalRecords"`
	UniqueStreamers int      `json:"uniqueStreamers"`
	TotalOrders     int      `json:"totalOrders"`
	TotalAmount     float64  `json:"totalAmount"`
	Platforms       []string `json:"platforms"`
}
