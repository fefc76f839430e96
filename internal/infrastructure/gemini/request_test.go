package gemini

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		image   []byte
		query   string
		wantErr error
	}{
		{name: "missing image", image: nil, query: "oat milk", wantErr: domain.ErrMissingImage},
		{name: "blank query", image: jpegBytes, query: "   ", wantErr: domain.ErrEmptyQuery},
		{name: "not an image", image: []byte("just some text, not a photo"), query: "oat milk", wantErr: domain.ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRequest(tt.image, tt.query, nil, BuildOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBuildRequest_DetectsImageType(t *testing.T) {
	req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", req.MIMEType)

	req, err = BuildRequest(pngBytes, "oat milk", nil, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "image/png", req.MIMEType)
}

func TestBuildRequest_Temperature(t *testing.T) {
	req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTemperature, req.Temperature)

	req, err = BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, float32(0.3), req.Temperature)
}

func TestBuildRequest_Prompt(t *testing.T) {
	t.Run("states query and dietary profile", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "Need a low-sodium  broth alternative", []string{"Low Sodium", "Organic"}, BuildOptions{})
		require.NoError(t, err)

		assert.Contains(t, req.Prompt, `"Need a low-sodium broth alternative"`)
		assert.Contains(t, req.Prompt, "Dietary Profile / Global Preferences: Low Sodium, Organic.")
	})

	t.Run("empty profile reads None", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
		require.NoError(t, err)
		assert.Contains(t, req.Prompt, "Dietary Profile / Global Preferences: None.")
	})

	t.Run("states every interpretation policy", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
		require.NoError(t, err)

		for _, want := range []string{
			"similarity",
			"hard filter",
			"serves N",
			"FULL frame",
			"WRONG_AISLE",
			"bounding box",
			"supplementary",
			"ONLY raw JSON",
		} {
			assert.Contains(t, req.Prompt, want)
		}
	})

	t.Run("embeds the schema", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
		require.NoError(t, err)
		assert.Contains(t, req.Prompt, `"detectedItemCount"`)
		assert.Contains(t, req.Prompt, `"FUNCTIONAL_ALTERNATIVE"`)
	})

	t.Run("adds detected hints", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "juice like Minute Maid for 30 people", nil, BuildOptions{})
		require.NoError(t, err)
		assert.Contains(t, req.Prompt, "buying for 30 people")
		assert.Contains(t, req.Prompt, `Reference brand: "Minute Maid"`)
	})

	t.Run("omits hint section when nothing detected", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
		require.NoError(t, err)
		assert.NotContains(t, req.Prompt, "DETECTED IN THE REQUEST")
	})
}

func TestAnalysisRequest_Wire(t *testing.T) {
	t.Run("strict schema mode without grounding", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{})
		require.NoError(t, err)

		wire := req.wire()
		assert.Empty(t, wire.Tools)
		assert.Equal(t, "application/json", wire.GenerationConfig.ResponseMIMEType)
		assert.NotNil(t, wire.GenerationConfig.ResponseSchema)

		require.Len(t, wire.Contents, 1)
		parts := wire.Contents[0].Parts
		require.Len(t, parts, 2)
		require.NotNil(t, parts[0].InlineData)
		assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
		decoded, err := base64.StdEncoding.DecodeString(parts[0].InlineData.Data)
		require.NoError(t, err)
		assert.Equal(t, jpegBytes, decoded)
		assert.Equal(t, req.Prompt, parts[1].Text)
	})

	t.Run("grounded mode sends search tool and no schema", func(t *testing.T) {
		req, err := BuildRequest(jpegBytes, "oat milk", nil, BuildOptions{SearchGrounding: true})
		require.NoError(t, err)

		data, err := json.Marshal(req.wire())
		require.NoError(t, err)

		body := string(data)
		assert.Contains(t, body, `"tools":[{"googleSearch":{}}]`)
		assert.NotContains(t, body, "responseSchema")
		assert.Contains(t, body, `"temperature":0.1`)
	})
}

func TestRecommendationSchema(t *testing.T) {
	schema := RecommendationSchema()

	assert.Equal(t, TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{
		"matchType", "productName", "locationDescription", "matchScore", "reasoning",
		"healthHighlights", "nutritionalComparison", "visualCues", "detectedItemCount", "otherCandidates",
	}, schema.Required)
	assert.NotContains(t, schema.Required, "boundingBox")
	assert.NotContains(t, schema.Required, "supplementaryItems")

	assert.Equal(t, []string{"EXACT_MATCH", "SUBSTITUTE", "FUNCTIONAL_ALTERNATIVE", "WRONG_AISLE"}, schema.Properties["matchType"].Enum)
	assert.Equal(t, TypeInteger, schema.Properties["detectedItemCount"].Type)

	supp := schema.Properties["supplementaryItems"]
	require.NotNil(t, supp.Items)
	assert.Contains(t, supp.Items.Required, "boundingBox")

	// Every property listed as required exists
	for _, name := range schema.Required {
		assert.Contains(t, schema.Properties, name)
	}

	assert.True(t, strings.HasPrefix(schema.JSON(), "{"))
}
