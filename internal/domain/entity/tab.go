package entity

import "time"

// TabID uniquely identifies a tab.
type TabID string

// Tab is the top-level unit of browsing. Each open tab owns exactly one live
// engine instance at any instant; the instance is tracked by the browser
// layer, the entity only carries identity and display state.
type Tab struct {
	ID        TabID
	Title     string
	URI       string
	Position  int
	CreatedAt time.Time
}

// NewTab creates a tab at position zero.
func NewTab(id TabID) *Tab {
	return &Tab{
		ID:        id,
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the title for the tab bar, falling back to the URI.
func (t *Tab) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.URI != "" {
		return t.URI
	}
	return "New Tab"
}
