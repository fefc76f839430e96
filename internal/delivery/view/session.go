package view

import (
	"time"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/ix-ath/shelf-sense/internal/usecase"
)

// Session is the full screen state for the presentation layer
type Session struct {
	State      usecase.State `json:"state"`
	Query      string        `json:"query"`
	Tags       []string      `json:"tags"`
	HasImage   bool          `json:"hasImage"`
	Error      string        `json:"error,omitempty"`
	InputError string        `json:"inputError,omitempty"`
	CanSubmit  bool          `json:"canSubmit"`
	Result     *Result       `json:"result,omitempty"`
}

// NewSession renders a session snapshot
func NewSession(snap usecase.SessionSnapshot) (*Session, error) {
	s := &Session{
		State:      snap.State,
		Query:      snap.Query,
		Tags:       snap.Tags,
		HasImage:   snap.HasImage,
		Error:      snap.Error,
		InputError: snap.InputError,
		CanSubmit:  snap.CanSubmit,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}

	if snap.State == usecase.StateResult && snap.Result != nil {
		result, err := NewResult(snap.Result, snap.SelectedIndex, snap.HasImage)
		if err != nil {
			return nil, err
		}
		s.Result = result
	}
	return s, nil
}

// HistoryEntry is one row of the recent scans list
type HistoryEntry struct {
	ID                  string    `json:"id"`
	Time                time.Time `json:"time"`
	ProductName         string    `json:"productName"`
	LocationDescription string    `json:"locationDescription"`
	Badge               Badge     `json:"badge"`
}

// NewHistory renders history rows from the stored summaries only
func NewHistory(items []domain.ScanHistoryItem) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, HistoryEntry{
			ID:                  item.ID,
			Time:                item.Time(),
			ProductName:         item.Summary.ProductName,
			LocationDescription: item.Summary.LocationDescription,
			Badge:               BadgeFor(item.Summary.MatchType),
		})
	}
	return entries
}
