package usecase

import (
	"context"
	"sync"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

// MockStore is a mock implementation of domain.KeyValueStore
type MockStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	setCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// GatedStore blocks its first Set until release is closed
type GatedStore struct {
	*MockStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func NewGatedStore() *GatedStore {
	return &GatedStore{
		MockStore: NewMockStore(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (g *GatedStore) Set(ctx context.Context, key string, value []byte) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.MockStore.Set(ctx, key, value)
}

// MockAnalyzer is a mock implementation of domain.Analyzer. When release is
// set, Analyze blocks until it is closed.
type MockAnalyzer struct {
	mu      sync.Mutex
	result  *domain.Recommendation
	err     error
	calls   int
	query   string
	tags    []string
	started chan struct{}
	release chan struct{}
}

func (m *MockAnalyzer) Analyze(ctx context.Context, image []byte, query string, tags []string) (*domain.Recommendation, error) {
	m.mu.Lock()
	m.calls++
	m.query = query
	m.tags = tags
	started, release := m.started, m.release
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	rec := *m.result
	return &rec, nil
}

func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockTags is a fixed TagSource
type MockTags []string

func (m MockTags) Tags() []string { return append([]string(nil), m...) }

func testRecommendation(name string) domain.Recommendation {
	return domain.Recommendation{
		ShelfItemLocation: domain.ShelfItemLocation{
			ProductName:         name,
			Reasoning:           "Lowest sodium option on the shelf",
			LocationDescription: "Middle shelf, left side",
			VisualCues:          domain.VisualCues{Color: "Red", LabelDetails: "Heart logo", ShelfPosition: "Eye Level"},
			BoundingBox:         &domain.BoundingBox{YMin: 30, XMin: 10, YMax: 60, XMax: 25},
		},
		MatchType:             domain.MatchSubstitute,
		MatchScore:            82,
		HealthHighlights:      []string{"Low sodium"},
		NutritionalComparison: "140mg versus 480mg sodium",
		DetectedItemCount:     12,
		OtherCandidates:       []domain.RejectedCandidate{{Name: "Classic Soup", ReasonExcluded: "High sodium"}},
		SupplementaryItems: []domain.ShelfItemLocation{
			{
				ProductName:         "Oyster Crackers",
				Reasoning:           "Goes with soup",
				LocationDescription: "Bottom shelf",
				VisualCues:          domain.VisualCues{Color: "Blue", LabelDetails: "Wave logo", ShelfPosition: "Bottom Shelf"},
			},
		},
	}
}
