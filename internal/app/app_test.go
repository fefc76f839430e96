package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ix-ath/shelf-sense/config"
	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedAnalyzer struct{ rec domain.Recommendation }

func (f fixedAnalyzer) Analyze(ctx context.Context, image []byte, query string, tags []string) (*domain.Recommendation, error) {
	rec := f.rec
	return &rec, nil
}

func testConfig(storageType, path string) *config.Config {
	return &config.Config{
		Gemini:    config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash"},
		Storage:   config.StorageConfig{Type: storageType, Path: path},
		RateLimit: config.RateLimitConfig{AnalysisPerMinute: 10, Burst: 2},
	}
}

func TestNewRestoresStateAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("sqlite", filepath.Join(t.TempDir(), "shelfsense.db"))
	rec := domain.Recommendation{
		ShelfItemLocation: domain.ShelfItemLocation{ProductName: "Oat Milk", LocationDescription: "Dairy case"},
		MatchType:         domain.MatchExact,
		MatchScore:        95,
	}

	first, err := New(ctx, cfg, fixedAnalyzer{rec: rec}, nil)
	require.NoError(t, err)
	require.NoError(t, first.Session.SetImage([]byte{0xFF, 0xD8, 0xFF}))
	require.NoError(t, first.Session.SetQuery("oat milk"))
	_, err = first.Session.Submit(ctx)
	require.NoError(t, err)
	_, err = first.Prefs.ToggleTag(ctx, "vegan")
	require.NoError(t, err)
	require.NoError(t, first.Prefs.SetTheme(ctx, domain.ThemeDark))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, fixedAnalyzer{rec: rec}, nil)
	require.NoError(t, err)
	defer second.Close()

	items := second.History.List()
	require.Len(t, items, 1)
	assert.Equal(t, "Oat Milk", items[0].Summary.ProductName)
	assert.Equal(t, rec, items[0].FullData)
	assert.Equal(t, []string{"Vegan"}, second.Prefs.Tags())
	assert.Equal(t, domain.ThemeDark, second.Prefs.Theme().ID)
	assert.Equal(t, []string{"Vegan"}, second.Session.Snapshot().Tags)
}

func TestNewUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), testConfig("etcd", ""), fixedAnalyzer{}, nil)
	assert.Error(t, err)
}

func TestNewAnalyzerUsesConfig(t *testing.T) {
	client := NewAnalyzer(testConfig("memory", ""), nil)
	assert.NotNil(t, client)
}
