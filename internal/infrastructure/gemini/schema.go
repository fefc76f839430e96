package gemini

import (
	"encoding/json"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

// Schema is the subset of the OpenAPI schema object the generateContent API accepts
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Schema types
const (
	TypeObject  = "OBJECT"
	TypeArray   = "ARRAY"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeInteger = "INTEGER"
)

// Fields the model must always populate. boundingBox is left out on purpose:
// WRONG_AISLE responses legitimately omit it.
var requiredRecommendationFields = []string{
	"matchType",
	"productName",
	"locationDescription",
	"matchScore",
	"reasoning",
	"healthHighlights",
	"nutritionalComparison",
	"visualCues",
	"detectedItemCount",
	"otherCandidates",
}

// Fields from requiredRecommendationFields that a WRONG_AISLE response may omit
var wrongAisleOptionalFields = map[string]bool{
	"visualCues": true,
}

func stringSchema(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

func numberSchema(description string) *Schema {
	return &Schema{Type: TypeNumber, Description: description}
}

func visualCuesSchema(withHints bool) *Schema {
	s := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"color":         stringSchema(""),
			"labelDetails":  stringSchema(""),
			"shelfPosition": stringSchema(""),
		},
		Required: []string{"color", "labelDetails", "shelfPosition"},
	}
	if withHints {
		s.Properties["color"].Description = "Dominant packaging color."
		s.Properties["labelDetails"].Description = "Distinctive text or logo printed on the label."
		s.Properties["shelfPosition"].Description = "Vertical position, e.g. 'Top Shelf', 'Eye Level', 'Bottom Shelf'."
	}
	return s
}

func boundingBoxSchema(description string, withHints bool) *Schema {
	s := &Schema{
		Type:        TypeObject,
		Description: description,
		Properties: map[string]*Schema{
			"ymin": numberSchema(""),
			"xmin": numberSchema(""),
			"ymax": numberSchema(""),
			"xmax": numberSchema(""),
		},
		Required: []string{"ymin", "xmin", "ymax", "xmax"},
	}
	if withHints {
		s.Properties["ymin"].Description = "Top edge as a percentage of image height (0-100)."
		s.Properties["xmin"].Description = "Left edge as a percentage of image width (0-100)."
		s.Properties["ymax"].Description = "Bottom edge as a percentage of image height (0-100)."
		s.Properties["xmax"].Description = "Right edge as a percentage of image width (0-100)."
	}
	return s
}

func matchTypeEnum() []string {
	out := make([]string, 0, len(domain.MatchTypes))
	for _, mt := range domain.MatchTypes {
		out = append(out, string(mt))
	}
	return out
}

// RecommendationSchema describes the structured output the model must emit.
// Keep it in step with the instructions in buildPrompt.
func RecommendationSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"matchType": {
				Type:        TypeString,
				Enum:        matchTypeEnum(),
				Description: "Classify the result. Use WRONG_AISLE when the shelf does not carry the requested category at all.",
			},
			"productName":         stringSchema("The exact brand and product name printed on the package, e.g. 'BrandX Low Sodium Beans'."),
			"locationDescription": stringSchema("Precise instructions for finding the product on this shelf."),
			"matchScore":          numberSchema("How well the product satisfies the request, from 0 to 100."),
			"reasoning":           stringSchema("Why this product was chosen over the others."),
			"healthHighlights": {
				Type:        TypeArray,
				Items:       stringSchema(""),
				Description: "Key health benefits of the chosen product, most important first.",
			},
			"nutritionalComparison": stringSchema("How the chosen product's nutrients compare to what was requested."),
			"visualCues":            visualCuesSchema(true),
			"boundingBox": boundingBoxSchema(
				"Location of the chosen product in the image. REQUIRED when matchType is EXACT_MATCH, SUBSTITUTE or FUNCTIONAL_ALTERNATIVE.",
				true,
			),
			"detectedItemCount": {
				Type:        TypeInteger,
				Description: "Number of relevant products counted across the FULL frame, edge to edge, not only the center.",
			},
			"otherCandidates": {
				Type: TypeArray,
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"name":           stringSchema(""),
						"reasonExcluded": stringSchema(""),
					},
					Required: []string{"name", "reasonExcluded"},
				},
				Description: "Up to 3 products considered but rejected, with the reason.",
			},
			"supplementaryItems": {
				Type:        TypeArray,
				Description: "When the request implies several products (e.g. 'birthday cake' needs mix and frosting), up to 3 additional items found on the shelf.",
				Items: &Schema{
					Type: TypeObject,
					Properties: map[string]*Schema{
						"productName":         stringSchema(""),
						"reasoning":           stringSchema("Why this item completes the request."),
						"locationDescription": stringSchema(""),
						"visualCues":          visualCuesSchema(false),
						"boundingBox":         boundingBoxSchema("", false),
					},
					Required: []string{"productName", "reasoning", "locationDescription", "visualCues", "boundingBox"},
				},
			},
		},
		Required: append([]string(nil), requiredRecommendationFields...),
	}
}

// JSON renders the schema for embedding in prompt text
func (s *Schema) JSON() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
