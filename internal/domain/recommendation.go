package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MatchType classifies how well the located product satisfies the request
type MatchType string

const (
	MatchExact                 MatchType = "EXACT_MATCH"
	MatchSubstitute            MatchType = "SUBSTITUTE"
	MatchFunctionalAlternative MatchType = "FUNCTIONAL_ALTERNATIVE"
	MatchWrongAisle            MatchType = "WRONG_AISLE"
)

// MatchTypes lists every recognized match type in schema order
var MatchTypes = []MatchType{
	MatchExact,
	MatchSubstitute,
	MatchFunctionalAlternative,
	MatchWrongAisle,
}

// ParseMatchType converts a raw string into a MatchType.
// Unrecognized values return ErrUnknownMatchType instead of passing through.
func ParseMatchType(s string) (MatchType, error) {
	for _, mt := range MatchTypes {
		if string(mt) == s {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMatchType, s)
}

// UnmarshalJSON rejects match types outside the closed set
func (m *MatchType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMatchType(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// VisualCues describes how to re-identify an item on the shelf by eye
type VisualCues struct {
	Color         string `json:"color"`
	LabelDetails  string `json:"labelDetails"`
	ShelfPosition string `json:"shelfPosition"`
}

// BoundingBox is a percentage-based rectangle with a top-left origin
type BoundingBox struct {
	YMin float64 `json:"ymin"`
	XMin float64 `json:"xmin"`
	YMax float64 `json:"ymax"`
	XMax float64 `json:"xmax"`
}

// Valid reports whether every edge lies in [0,100] and the box is not inverted.
// An invalid box is a data-quality problem, never a fatal one.
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.YMin, b.XMin, b.YMax, b.XMax} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return b.YMin < b.YMax && b.XMin < b.XMax
}

// Height returns the box height in percent of the image height
func (b BoundingBox) Height() float64 { return b.YMax - b.YMin }

// Width returns the box width in percent of the image width
func (b BoundingBox) Width() float64 { return b.XMax - b.XMin }

// ShelfItemLocation is the shape shared by the primary result and supplementary items
type ShelfItemLocation struct {
	ProductName         string       `json:"productName"`
	Reasoning           string       `json:"reasoning"`
	LocationDescription string       `json:"locationDescription"`
	VisualCues          VisualCues   `json:"visualCues"`
	BoundingBox         *BoundingBox `json:"boundingBox,omitempty"`
}

// RejectedCandidate is a product the model considered and excluded
type RejectedCandidate struct {
	Name           string `json:"name"`
	ReasonExcluded string `json:"reasonExcluded"`
}

// VerifiedSource is a citation attached when the model used web search
type VerifiedSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Recommendation is the full analysis result for one scan
type Recommendation struct {
	ShelfItemLocation
	MatchType             MatchType           `json:"matchType" validate:"required"`
	MatchScore            float64             `json:"matchScore" validate:"gte=0,lte=100"`
	HealthHighlights      []string            `json:"healthHighlights"`
	NutritionalComparison string              `json:"nutritionalComparison"`
	DetectedItemCount     int                 `json:"detectedItemCount" validate:"gte=0"`
	OtherCandidates       []RejectedCandidate `json:"otherCandidates"`
	SupplementaryItems    []ShelfItemLocation `json:"supplementaryItems,omitempty"`
	VerifiedSources       []VerifiedSource    `json:"verifiedSources,omitempty"`
}

// IsWrongAisle reports whether the shelf does not carry the requested category.
// In that state the bounding box and visual cues carry no meaning.
func (r *Recommendation) IsWrongAisle() bool {
	return r.MatchType == MatchWrongAisle
}

// Item returns the ShelfItemLocation view for a sub-entity index.
// -1 selects the primary item; 0..k-1 index into SupplementaryItems.
func (r *Recommendation) Item(index int) (ShelfItemLocation, error) {
	if index == PrimaryItemIndex {
		return r.ShelfItemLocation, nil
	}
	if index < 0 || index >= len(r.SupplementaryItems) {
		return ShelfItemLocation{}, fmt.Errorf("%w: %d (have %d supplementary items)", ErrInvalidIndex, index, len(r.SupplementaryItems))
	}
	return r.SupplementaryItems[index], nil
}

// PrimaryItemIndex selects the primary result in a sub-entity selector
const PrimaryItemIndex = -1

var recommendationValidator = newRecommendationValidator()

func newRecommendationValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(recommendationStructLevel, Recommendation{})
	return v
}

func recommendationStructLevel(sl validator.StructLevel) {
	rec := sl.Current().Interface().(Recommendation)

	if rec.MatchType != MatchWrongAisle && strings.TrimSpace(rec.ProductName) == "" {
		sl.ReportError(rec.ProductName, "productName", "ProductName", "required", "")
	}
	if strings.TrimSpace(rec.LocationDescription) == "" {
		sl.ReportError(rec.LocationDescription, "locationDescription", "LocationDescription", "required", "")
	}
	for i, item := range rec.SupplementaryItems {
		if strings.TrimSpace(item.ProductName) == "" {
			field := fmt.Sprintf("supplementaryItems[%d].productName", i)
			sl.ReportError(item.ProductName, field, "ProductName", "required", "")
		}
	}
}

// Validate checks the parsed payload against the declared shape
func (r *Recommendation) Validate() error {
	if err := recommendationValidator.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
