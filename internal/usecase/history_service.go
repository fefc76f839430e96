package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"go.uber.org/zap"
)

// HistoryServiceConfig holds configuration for the history service
type HistoryServiceConfig struct {
	MaxItems int
}

// HistoryService keeps the most recent completed scans, newest first.
// It is a bounded log: inserting past capacity evicts the oldest entry.
type HistoryService struct {
	store    domain.KeyValueStore
	maxItems int
	logger   *zap.Logger

	newID func() (string, error)
	now   func() time.Time

	mu    sync.Mutex
	items []domain.ScanHistoryItem
}

// NewHistoryService creates a history service backed by store
func NewHistoryService(store domain.KeyValueStore, config HistoryServiceConfig, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = domain.MaxHistoryItems
	}

	return &HistoryService{
		store:    store,
		maxItems: maxItems,
		logger:   logger.Named("history"),
		newID:    newHistoryID,
		now:      time.Now,
	}
}

// newHistoryID returns a time-ordered unique id
func newHistoryID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Load reads history from storage. Missing or corrupt data degrades to an
// empty history and is never reported to the caller.
func (s *HistoryService) Load(ctx context.Context) []domain.ScanHistoryItem {
	items, err := s.read(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("history unreadable, starting empty", zap.Error(err))
		}
		items = nil
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	return s.List()
}

func (s *HistoryService) read(ctx context.Context) ([]domain.ScanHistoryItem, error) {
	data, err := s.store.Get(ctx, domain.HistoryKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageRead, err)
	}

	var items []domain.ScanHistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageRead, err)
	}
	return items, nil
}

// List returns the history, newest first
func (s *HistoryService) List() []domain.ScanHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ScanHistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the entry with id
func (s *HistoryService) Get(id string) (domain.ScanHistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.ScanHistoryItem{}, fmt.Errorf("%w: history entry %q", domain.ErrNotFound, id)
}

// Save prepends a completed recommendation and writes the history through.
// The in-memory history is updated even if the write fails.
func (s *HistoryService) Save(ctx context.Context, rec domain.Recommendation) (*domain.ScanHistoryItem, error) {
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate history id: %w", err)
	}
	item := domain.NewScanHistoryItem(id, s.now(), rec)

	s.mu.Lock()
	updated := make([]domain.ScanHistoryItem, 0, s.maxItems)
	updated = append(updated, item)
	updated = append(updated, s.items...)
	if len(updated) > s.maxItems {
		updated = updated[:s.maxItems]
	}
	s.items = updated
	snapshot := make([]domain.ScanHistoryItem, len(updated))
	copy(snapshot, updated)
	s.mu.Unlock()

	if err := s.write(ctx, snapshot); err != nil {
		return &item, err
	}

	s.logger.Debug("scan saved", zap.String("id", id), zap.Int("size", len(snapshot)))
	return &item, nil
}

func (s *HistoryService) write(ctx context.Context, items []domain.ScanHistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.store.Set(ctx, domain.HistoryKey, data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Clear removes every entry
func (s *HistoryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, domain.HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.logger.Info("history cleared")
	return nil
}
