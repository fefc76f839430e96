package domain

import "time"

// MaxHistoryItems is how many completed scans the history keeps
const MaxHistoryItems = 5

// HistorySummary is the denormalized view used to render history lists
type HistorySummary struct {
	ProductName         string    `json:"productName"`
	MatchType           MatchType `json:"matchType"`
	LocationDescription string    `json:"locationDescription"`
}

// ScanHistoryItem is one completed scan. Images are never part of it.
type ScanHistoryItem struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"` // unix milliseconds
	Summary   HistorySummary `json:"summary"`
	FullData  Recommendation `json:"fullData"`
}

// NewScanHistoryItem builds a history record from a recommendation
func NewScanHistoryItem(id string, at time.Time, rec Recommendation) ScanHistoryItem {
	return ScanHistoryItem{
		ID:        id,
		Timestamp: at.UnixMilli(),
		Summary: HistorySummary{
			ProductName:         rec.ProductName,
			MatchType:           rec.MatchType,
			LocationDescription: rec.LocationDescription,
		},
		FullData: rec,
	}
}

// Time returns the record timestamp as a time.Time
func (h ScanHistoryItem) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}
