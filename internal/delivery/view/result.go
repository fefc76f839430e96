// Package view turns session state into what the result card, history list
// and settings screen display. Everything here is a pure function of its input.
package view

import (
	"fmt"

	"github.com/ix-ath/shelf-sense/internal/domain"
)

// Tone selects the badge and marker color family
type Tone string

const (
	ToneExact      Tone = "exact"
	ToneSubstitute Tone = "substitute"
	ToneAlert      Tone = "alert"
	ToneSupplement Tone = "supplement"
)

const (
	LabelExactMatch    = "Exact Match"
	LabelSubstitute    = "Smart Substitute"
	LabelLocationAlert = "Location Alert"
	LabelSupplementary = "Supplementary Item"

	MarkerFoundIt   = "FOUND IT"
	MarkerBestMatch = "BEST MATCH"
	MarkerAlsoFound = "ALSO FOUND"

	HeadingWrongAisle = "Wrong Aisle Detected"
	LabelVerified     = "Verified Online"
)

// Badge is the match classification pill
type Badge struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

// Marker is the on-image locator, in percentages of the image size
type Marker struct {
	Label  string  `json:"label"`
	Tone   Tone    `json:"tone"`
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// SwitcherEntry is one button of the primary/supplementary item switcher
type SwitcherEntry struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// SourceLink points at the first verified source
type SourceLink struct {
	Label string `json:"label"`
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Details is the collapsible analysis panel. Health, nutrition and candidate
// data belong to the primary item only.
type Details struct {
	Reasoning             string                     `json:"reasoning"`
	HealthHighlights      []string                   `json:"healthHighlights,omitempty"`
	NutritionalComparison string                     `json:"nutritionalComparison,omitempty"`
	DetectedItemCount     int                        `json:"detectedItemCount"`
	AlternativeCount      int                        `json:"alternativeCount"`
	RejectedCandidates    []domain.RejectedCandidate `json:"rejectedCandidates,omitempty"`
	ShowStats             bool                       `json:"showStats"`
}

// Result is the rendered result card
type Result struct {
	Heading             string          `json:"heading"`
	Badge               Badge           `json:"badge"`
	ScoreLabel          string          `json:"scoreLabel,omitempty"`
	LocationDescription string          `json:"locationDescription"`
	Chips               []string        `json:"chips,omitempty"`
	Marker              *Marker         `json:"marker,omitempty"`
	Verified            *SourceLink     `json:"verified,omitempty"`
	Switcher            []SwitcherEntry `json:"switcher,omitempty"`
	Details             Details         `json:"details"`
	SelectedIndex       int             `json:"selectedIndex"`
	WrongAisle          bool            `json:"wrongAisle"`
}

// NewResult renders rec with the item at selected in focus. The marker is
// only produced when the shelf image is still available.
func NewResult(rec *domain.Recommendation, selected int, hasImage bool) (*Result, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: no recommendation", domain.ErrNotFound)
	}
	item, err := rec.Item(selected)
	if err != nil {
		return nil, err
	}

	main := selected == domain.PrimaryItemIndex
	wrongAisle := rec.IsWrongAisle()

	r := &Result{
		Heading:             item.ProductName,
		Badge:               badge(rec.MatchType, main),
		LocationDescription: item.LocationDescription,
		Switcher:            switcher(rec, selected),
		SelectedIndex:       selected,
		WrongAisle:          wrongAisle,
		Details: Details{
			Reasoning: item.Reasoning,
			ShowStats: main,
		},
	}

	if wrongAisle {
		r.Heading = HeadingWrongAisle
	} else {
		r.Chips = chips(item.VisualCues)
		if hasImage {
			r.Marker = marker(item.BoundingBox, rec.MatchType, main)
		}
	}

	if main {
		if !wrongAisle {
			r.ScoreLabel = ScoreLabel(rec.MatchScore)
			if len(rec.VerifiedSources) > 0 {
				src := rec.VerifiedSources[0]
				r.Verified = &SourceLink{Label: LabelVerified, URI: src.URI, Title: src.Title}
			}
		}
		r.Details.HealthHighlights = rec.HealthHighlights
		r.Details.NutritionalComparison = rec.NutritionalComparison
		r.Details.DetectedItemCount = rec.DetectedItemCount
		r.Details.AlternativeCount = len(rec.OtherCandidates)
		r.Details.RejectedCandidates = rec.OtherCandidates
	}

	return r, nil
}

// ScoreLabel formats a match score, e.g. "82% Match"
func ScoreLabel(score float64) string {
	return fmt.Sprintf("%g%% Match", score)
}

// BadgeFor returns the primary badge for a match type
func BadgeFor(m domain.MatchType) Badge {
	return badge(m, true)
}

func badge(m domain.MatchType, main bool) Badge {
	switch {
	case !main:
		return Badge{Label: LabelSupplementary, Tone: ToneSupplement}
	case m == domain.MatchWrongAisle:
		return Badge{Label: LabelLocationAlert, Tone: ToneAlert}
	case m == domain.MatchExact:
		return Badge{Label: LabelExactMatch, Tone: ToneExact}
	default:
		return Badge{Label: LabelSubstitute, Tone: ToneSubstitute}
	}
}

func chips(cues domain.VisualCues) []string {
	var out []string
	for _, c := range []string{cues.Color, cues.ShelfPosition} {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// marker returns nil for missing or invalid boxes
func marker(box *domain.BoundingBox, m domain.MatchType, main bool) *Marker {
	if box == nil || !box.Valid() {
		return nil
	}

	label, tone := MarkerAlsoFound, ToneSupplement
	if main {
		label, tone = MarkerBestMatch, ToneSubstitute
		if m == domain.MatchExact {
			label, tone = MarkerFoundIt, ToneExact
		}
	}

	return &Marker{
		Label:  label,
		Tone:   tone,
		Top:    box.YMin,
		Left:   box.XMin,
		Height: box.Height(),
		Width:  box.Width(),
	}
}

func switcher(rec *domain.Recommendation, selected int) []SwitcherEntry {
	if len(rec.SupplementaryItems) == 0 {
		return nil
	}

	entries := make([]SwitcherEntry, 0, len(rec.SupplementaryItems)+1)
	entries = append(entries, SwitcherEntry{
		Index:  domain.PrimaryItemIndex,
		Label:  rec.ProductName + " (Main)",
		Active: selected == domain.PrimaryItemIndex,
	})
	for i, item := range rec.SupplementaryItems {
		entries = append(entries, SwitcherEntry{
			Index:  i,
			Label:  item.ProductName,
			Active: selected == i,
		})
	}
	return entries
}
