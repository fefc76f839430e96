package view

import "github.com/ix-ath/shelf-sense/internal/domain"

// TagOption is one selectable tag in the dietary editor
type TagOption struct {
	Tag      string `json:"tag"`
	Selected bool   `json:"selected"`
}

// TagGroup is a catalog category with selection state
type TagGroup struct {
	Name    string      `json:"name"`
	Options []TagOption `json:"options"`
}

// Settings is the settings screen
type Settings struct {
	Theme        domain.ThemeConfig   `json:"theme"`
	Themes       []domain.ThemeConfig `json:"themes"`
	Tags         []TagGroup           `json:"tags"`
	CustomTags   []string             `json:"customTags,omitempty"`
	HistoryCount int                  `json:"historyCount"`
}

// NewSettings renders the settings screen. Active tags outside the catalog
// are listed separately so they can still be removed.
func NewSettings(theme domain.ThemeConfig, active []string, historyCount int) *Settings {
	selected := make(map[string]bool, len(active))
	for _, t := range active {
		selected[t] = true
	}

	s := &Settings{
		Theme:        theme,
		Themes:       domain.Themes,
		HistoryCount: historyCount,
	}
	inCatalog := map[string]bool{}
	for _, category := range domain.TagCatalog {
		group := TagGroup{Name: category.Name}
		for _, tag := range category.Tags {
			inCatalog[tag] = true
			group.Options = append(group.Options, TagOption{Tag: tag, Selected: selected[tag]})
		}
		s.Tags = append(s.Tags, group)
	}
	for _, t := range active {
		if !inCatalog[t] {
			s.CustomTags = append(s.CustomTags, t)
		}
	}
	return s
}
