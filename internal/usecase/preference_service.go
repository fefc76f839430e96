package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"go.uber.org/zap"
)

// PreferenceService holds the theme and the global dietary tag set.
// Both are read once at startup and written through on every change.
type PreferenceService struct {
	store   domain.KeyValueStore
	matcher *TagMatcher
	logger  *zap.Logger

	// writeMu orders mutations with their store writes
	writeMu sync.Mutex

	mu    sync.Mutex
	tags  []string
	theme domain.ThemeID
}

// NewPreferenceService creates a preference service backed by store.
// Toggled tags are resolved through matcher when it is non-nil.
func NewPreferenceService(store domain.KeyValueStore, matcher *TagMatcher, logger *zap.Logger) *PreferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{
		store:   store,
		matcher: matcher,
		logger:  logger.Named("preferences"),
		theme:   domain.ThemeDefault,
	}
}

// Load reads both records. Unreadable values fall back to defaults silently.
func (s *PreferenceService) Load(ctx context.Context) {
	tags := s.readTags(ctx)
	theme := s.readTheme(ctx)

	s.mu.Lock()
	s.tags = tags
	s.theme = theme
	s.mu.Unlock()
}

func (s *PreferenceService) readTags(ctx context.Context) []string {
	data, err := s.store.Get(ctx, domain.GlobalPrefsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("dietary tags unreadable, using none", zap.Error(err))
		}
		return nil
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("dietary tags corrupt, using none", zap.Error(fmt.Errorf("%w: %v", domain.ErrStorageRead, err)))
		return nil
	}
	return dedupeTags(raw)
}

func (s *PreferenceService) readTheme(ctx context.Context) domain.ThemeID {
	data, err := s.store.Get(ctx, domain.ThemeKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("theme unreadable, using default", zap.Error(err))
		}
		return domain.ThemeDefault
	}

	id, err := domain.ParseThemeID(strings.TrimSpace(string(data)))
	if err != nil {
		s.logger.Warn("stored theme unknown, using default", zap.Error(err))
		return domain.ThemeDefault
	}
	return id
}

// dedupeTags trims tags and drops blanks and repeats, keeping first occurrence order
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.TrimSpace(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Tags returns the global dietary tags
func (s *PreferenceService) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// HasTag reports whether tag is in the global set
func (s *PreferenceService) HasTag(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsTag(s.tags, strings.TrimSpace(tag))
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ToggleTag flips the presence of tag and writes the set through
func (s *PreferenceService) ToggleTag(ctx context.Context, tag string) ([]string, error) {
	t := strings.TrimSpace(tag)
	if t == "" {
		return nil, fmt.Errorf("%w: empty tag", domain.ErrValidation)
	}
	if s.matcher != nil {
		t, _ = s.matcher.Resolve(t)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	var updated []string
	if containsTag(s.tags, t) {
		updated = make([]string, 0, len(s.tags))
		for _, existing := range s.tags {
			if existing != t {
				updated = append(updated, existing)
			}
		}
	} else {
		updated = append(append(make([]string, 0, len(s.tags)+1), s.tags...), t)
	}
	s.tags = updated
	snapshot := append([]string(nil), updated...)
	s.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return snapshot, fmt.Errorf("encode dietary tags: %w", err)
	}
	if err := s.store.Set(ctx, domain.GlobalPrefsKey, data); err != nil {
		return snapshot, fmt.Errorf("write dietary tags: %w", err)
	}
	return snapshot, nil
}

// Theme returns the active theme config
func (s *PreferenceService) Theme() domain.ThemeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Theme(s.theme)
}

// SetTheme changes the theme and writes it through
func (s *PreferenceService) SetTheme(ctx context.Context, id domain.ThemeID) error {
	if _, err := domain.ParseThemeID(string(id)); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.theme = id
	s.mu.Unlock()

	if err := s.store.Set(ctx, domain.ThemeKey, []byte(id)); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}
