package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ix-ath/shelf-sense/internal/domain"
)

// DefaultTemperature keeps output variance low
const DefaultTemperature float32 = 0.1

// AnalysisRequest is one outbound multimodal request, before wire encoding
type AnalysisRequest struct {
	Image           []byte
	MIMEType        string
	Prompt          string
	Schema          *Schema
	Temperature     float32
	SearchGrounding bool
}

// BuildOptions controls provider-facing request settings
type BuildOptions struct {
	Temperature     float32
	SearchGrounding bool
}

// BuildRequest composes the outbound request for one scan.
// The caller has already checked that query is non-blank.
func BuildRequest(image []byte, query string, tags []string, opts BuildOptions) (*AnalysisRequest, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrMissingImage)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyQuery)
	}

	mime := mimetype.Detect(image)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrValidation, domain.ErrUnsupportedImage, mime.String())
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	schema := RecommendationSchema()
	return &AnalysisRequest{
		Image:           image,
		MIMEType:        mime.String(),
		Prompt:          buildPrompt(query, tags, InterpretQuery(query), schema),
		Schema:          schema,
		Temperature:     temperature,
		SearchGrounding: opts.SearchGrounding,
	}, nil
}

// buildPrompt states every behavioral requirement explicitly; nothing
// downstream verifies model compliance with them.
func buildPrompt(query string, tags []string, hints QueryHints, schema *Schema) string {
	profile := "None"
	if len(tags) > 0 {
		profile = strings.Join(tags, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I am at a grocery store and I have a request: %q.\n", NormalizeQuery(query))
	fmt.Fprintf(&b, "My Dietary Profile / Global Preferences: %s.\n\n", profile)
	b.WriteString("Analyze the image of the grocery shelf to find the best match.\n\n")

	b.WriteString("INTERPRETATION RULES:\n")
	b.WriteString("1. Brand mentions express similarity. \"Like Brand X\" means a product similar to Brand X in type and flavor, NOT a product literally named \"Like Brand X\". A plain product name means that exact product.\n")
	b.WriteString("2. The dietary profile is a hard filter. Reject products that violate it even when their name matches the query (e.g. reject high-sugar items for Keto).\n")
	b.WriteString("3. Quantity language (e.g. \"for 30 people\") must become a multiplied or bulk recommendation. Read \"serves N\" or servings-per-container text on labels and state how many units are needed.\n")
	b.WriteString("4. If the request implies several products (e.g. a recipe), list up to 3 supplementary items that complete it.\n\n")

	b.WriteString("VISION RULES:\n")
	b.WriteString("1. Read text actually printed on packaging. Do NOT guess flavors or variants that are not visible.\n")
	b.WriteString("2. Scan the FULL frame edge to edge when counting items; detectedItemCount must not reflect only the center of the image.\n")
	b.WriteString("3. If the shelf does not carry the requested category at all, set matchType to WRONG_AISLE.\n")
	b.WriteString("4. A bounding box (percentages 0-100, top-left origin, ymin < ymax, xmin < xmax) is REQUIRED for the primary item and for every supplementary item.\n")
	b.WriteString("5. List up to 3 rejected candidates with the reason each was excluded.\n\n")

	if hints.PartySize > 0 || hints.ReferenceBrand != "" {
		b.WriteString("DETECTED IN THE REQUEST:\n")
		if hints.PartySize > 0 {
			fmt.Fprintf(&b, "- Quantity: buying for %d people. Multiply the recommendation accordingly.\n", hints.PartySize)
		}
		if hints.ReferenceBrand != "" {
			fmt.Fprintf(&b, "- Reference brand: %q. Find something similar, not a product with that phrase in its name.\n", hints.ReferenceBrand)
		}
		b.WriteString("\n")
	}

	b.WriteString("OUTPUT: Return ONLY raw JSON with no prose and no code fences. Strictly follow this schema:\n")
	b.WriteString(schema.JSON())
	b.WriteString("\n")
	return b.String()
}

// Wire types for the generateContent endpoint

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	Tools            []tool           `json:"tools,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// wire encodes the request. With search grounding on, the provider rejects a
// response schema alongside tools, so the schema travels in the prompt only.
func (r *AnalysisRequest) wire() generateContentRequest {
	req := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: r.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(r.Image),
				}},
				{Text: r.Prompt},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature: r.Temperature,
		},
	}

	if r.SearchGrounding {
		req.Tools = []tool{{GoogleSearch: &struct{}{}}}
	} else {
		req.GenerationConfig.ResponseMIMEType = "application/json"
		req.GenerationConfig.ResponseSchema = r.Schema
	}
	return req
}
