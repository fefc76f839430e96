package domain

import "fmt"

// ThemeID identifies a visual theme
type ThemeID string

const (
	ThemeDefault ThemeID = "default"
	ThemeDark    ThemeID = "dark"
	ThemeBerry   ThemeID = "berry"
	ThemeOcean   ThemeID = "ocean"
)

// ThemeConfig is the presentation metadata of a theme
type ThemeConfig struct {
	ID      ThemeID `json:"id"`
	Name    string  `json:"name"`
	Primary string  `json:"primary"`
	Dark    bool    `json:"dark"`
}

// Themes lists the available themes in display order
var Themes = []ThemeConfig{
	{ID: ThemeDefault, Name: "ShelfSense (Default)", Primary: "violet"},
	{ID: ThemeDark, Name: "Midnight (Dark)", Primary: "violet", Dark: true},
	{ID: ThemeBerry, Name: "Berry", Primary: "pink"},
	{ID: ThemeOcean, Name: "Ocean", Primary: "blue"},
}

// ParseThemeID converts a raw string into a ThemeID
func ParseThemeID(s string) (ThemeID, error) {
	for _, t := range Themes {
		if string(t.ID) == s {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// Theme returns the config for id, falling back to the default theme
func Theme(id ThemeID) ThemeConfig {
	for _, t := range Themes {
		if t.ID == id {
			return t
		}
	}
	return Themes[0]
}

// TagCategory groups dietary tags for the tag editor
type TagCategory struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// TagCatalog is the set of dietary tags offered to the user
var TagCatalog = []TagCategory{
	{Name: "Dietary Style", Tags: []string{"Vegan", "Vegetarian", "Keto", "Paleo", "Pescatarian", "Whole30", "Mediterranean"}},
	{Name: "Free From", Tags: []string{"Gluten-Free", "Dairy-Free", "Nut-Free", "Soy-Free", "Egg-Free", "Lactose-Free", "Grain-Free"}},
	{Name: "Health Goals", Tags: []string{"Low Sodium", "Low Sugar", "No Added Sugar", "Sugar-Free", "High Protein", "Low Carb", "Low Fat", "Heart Healthy", "Diabetic Friendly"}},
	{Name: "Sourcing & Ethics", Tags: []string{"Organic", "Non-GMO", "Fair Trade", "Locally Grown", "Sustainable"}},
	{Name: "Religious", Tags: []string{"Kosher", "Halal"}},
}
