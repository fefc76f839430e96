package domain

import "context"

// Storage keys for the three persisted records
const (
	HistoryKey     = "shelfSense_history_v1"
	ThemeKey       = "shelfSense_theme_v1"
	GlobalPrefsKey = "shelfSense_global_prefs_v1"
)

// KeyValueStore is a durable device-scoped key/value mapping.
// Each Set is a single atomic replace of the value under key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Analyzer performs one remote analysis round trip per call
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, query string, tags []string) (*Recommendation, error)
}

// HistoryRecorder appends completed scans to history
type HistoryRecorder interface {
	Save(ctx context.Context, rec Recommendation) (*ScanHistoryItem, error)
}
