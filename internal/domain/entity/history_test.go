package entity_test

import (
	"testing"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationHistory_VisitAndCurrent(t *testing.T) {
	h := entity.NewNavigationHistory()

	_, ok := h.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, h.CurrentIndex())

	h.Visit("https://a.com", "A")
	h.Visit("https://b.com", "B")

	cur, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "https://b.com", cur.URL)
	assert.Equal(t, 1, h.CurrentIndex())
	assert.Equal(t, 2, h.Len())
}

func TestNavigationHistory_VisitSameURLUpdatesTitle(t *testing.T) {
	h := entity.NewNavigationHistory()
	h.Visit("https://a.com", "")
	h.Visit("https://a.com", "A loaded")

	assert.Equal(t, 1, h.Len())
	cur, _ := h.Current()
	assert.Equal(t, "A loaded", cur.Title)
}

func TestNavigationHistory_ReloadKeepsExistingTitle(t *testing.T) {
	h := entity.NewNavigationHistory()
	h.Visit("https://a.com", "A loaded")

	// A reload revisits the current URL before the page reports its title.
	h.Visit("https://a.com", "")
	assert.Equal(t, 1, h.Len())
	cur, _ := h.Current()
	assert.Equal(t, "A loaded", cur.Title)

	h.Visit("https://a.com", "A refreshed")
	cur, _ = h.Current()
	assert.Equal(t, "A refreshed", cur.Title)
}

func TestNavigationHistory_BackForward(t *testing.T) {
	h := entity.NewNavigationHistory()
	h.Visit("https://a.com", "A")
	h.Visit("https://b.com", "B")
	h.Visit("https://c.com", "C")

	require.True(t, h.CanGoBack())
	assert.False(t, h.CanGoForward())

	entry, ok := h.GoBack()
	require.True(t, ok)
	assert.Equal(t, "https://b.com", entry.URL)
	assert.True(t, h.CanGoForward())

	entry, ok = h.GoForward()
	require.True(t, ok)
	assert.Equal(t, "https://c.com", entry.URL)

	_, ok = h.GoForward()
	assert.False(t, ok)
}

func TestNavigationHistory_VisitTruncatesForwardEntries(t *testing.T) {
	h := entity.NewNavigationHistory()
	h.Visit("https://a.com", "A")
	h.Visit("https://b.com", "B")
	h.GoBack()

	h.Visit("https://c.com", "C")

	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanGoForward())
	cur, _ := h.Current()
	assert.Equal(t, "https://c.com", cur.URL)
}

func TestNavigationHistory_ReplaceClampsIndex(t *testing.T) {
	h := entity.NewNavigationHistory()

	h.Replace([]entity.HistoryEntry{{URL: "https://a.com"}, {URL: "https://b.com"}}, 99)
	assert.Equal(t, 1, h.CurrentIndex())

	h.Replace([]entity.HistoryEntry{{URL: "https://a.com"}}, -5)
	assert.Equal(t, 0, h.CurrentIndex())

	h.Replace(nil, 3)
	assert.Equal(t, -1, h.CurrentIndex())
	assert.Equal(t, 0, h.Len())
}

func TestNavigationHistory_EntriesReturnsCopy(t *testing.T) {
	h := entity.NewNavigationHistory()
	h.Visit("https://a.com", "A")

	entries := h.Entries()
	entries[0].URL = "mutated"

	cur, _ := h.Current()
	assert.Equal(t, "https://a.com", cur.URL)
}
