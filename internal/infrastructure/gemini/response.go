package gemini

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

type webChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type groundingChunk struct {
	Web *webChunk `json:"web,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type candidate struct {
	Content           *content           `json:"content"`
	FinishReason      string             `json:"finishReason"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

// text joins the text parts of the first candidate
func (r *generateContentResponse) text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// sources returns the well-formed web citations of the first candidate, deduplicated by URI
func (r *generateContentResponse) sources() []domain.VerifiedSource {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var out []domain.VerifiedSource
	seen := make(map[string]bool)
	for _, chunk := range r.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		title := strings.TrimSpace(chunk.Web.Title)
		if title == "" || !isWebURL(uri) || seen[uri] {
			continue
		}
		seen[uri] = true
		out = append(out, domain.VerifiedSource{URI: uri, Title: title})
	}
	return out
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ExtractJSON strips a surrounding code fence and slices from the first '{'
// to the last '}'. Prose before or after the object is tolerated; nested
// braces in that prose can mis-slice, which then surfaces as a parse failure.
// Fences inside the object, e.g. in a quoted reasoning string, are kept.
func ExtractJSON(text string) (string, error) {
	cleaned := stripFence(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedResponse)
	}
	return cleaned[start : end+1], nil
}

// stripFence removes one leading ```json (or bare ```) marker and one trailing ``` marker
func stripFence(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, marker := range []string{"```json", "```JSON", "```"} {
		if strings.HasPrefix(cleaned, marker) {
			cleaned = strings.TrimPrefix(cleaned, marker)
			break
		}
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// ParseRecommendation extracts, parses and validates a recommendation from raw model text
func ParseRecommendation(text string) (*domain.Recommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyResponse
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	var rec domain.Recommendation
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if missing := missingRequiredFields(fields, rec.MatchType); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields %s", domain.ErrMalformedResponse, strings.Join(missing, ", "))
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}

func missingRequiredFields(fields map[string]json.RawMessage, matchType domain.MatchType) []string {
	var missing []string
	for _, name := range requiredRecommendationFields {
		if _, ok := fields[name]; ok {
			continue
		}
		if matchType == domain.MatchWrongAisle && wrongAisleOptionalFields[name] {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}
