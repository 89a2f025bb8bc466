package entity

// HistoryEntry is one visited page in a tab's navigation history.
type HistoryEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// NavigationHistory is the ordered sequence of visited pages plus the index
// of the current entry. It is owned by exactly one engine instance and is
// only mutated in response to navigation or an explicit restore.
type NavigationHistory struct {
	entries []HistoryEntry
	current int
}

// NewNavigationHistory creates an empty history with no current entry.
func NewNavigationHistory() *NavigationHistory {
	return &NavigationHistory{current: -1}
}

// Visit records a navigation to url, truncating any forward entries.
func (h *NavigationHistory) Visit(url, title string) {
	if h.current >= 0 && h.entries[h.current].URL == url {
		// Reload or title update of the current page. Reloads report no
		// title until the page settles, so an empty incoming title keeps
		// the one already recorded.
		if title != "" {
			h.entries[h.current].Title = title
		}
		return
	}
	h.entries = append(h.entries[:h.current+1], HistoryEntry{URL: url, Title: title})
	h.current = len(h.entries) - 1
}

// SetTitle updates the title of the current entry, if any.
func (h *NavigationHistory) SetTitle(title string) {
	if h.current >= 0 {
		h.entries[h.current].Title = title
	}
}

// Current returns the current entry and false when the history is empty.
func (h *NavigationHistory) Current() (HistoryEntry, bool) {
	if h.current < 0 {
		return HistoryEntry{}, false
	}
	return h.entries[h.current], true
}

// CanGoBack reports whether a previous entry exists.
func (h *NavigationHistory) CanGoBack() bool {
	return h.current > 0
}

// CanGoForward reports whether a following entry exists.
func (h *NavigationHistory) CanGoForward() bool {
	return h.current >= 0 && h.current < len(h.entries)-1
}

// GoBack moves to the previous entry.
func (h *NavigationHistory) GoBack() (HistoryEntry, bool) {
	if !h.CanGoBack() {
		return HistoryEntry{}, false
	}
	h.current--
	return h.entries[h.current], true
}

// GoForward moves to the following entry.
func (h *NavigationHistory) GoForward() (HistoryEntry, bool) {
	if !h.CanGoForward() {
		return HistoryEntry{}, false
	}
	h.current++
	return h.entries[h.current], true
}

// Entries returns a copy of all entries in order.
func (h *NavigationHistory) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// CurrentIndex returns the index of the current entry, -1 when empty.
func (h *NavigationHistory) CurrentIndex() int {
	return h.current
}

// Len returns the number of entries.
func (h *NavigationHistory) Len() int {
	return len(h.entries)
}

// Replace overwrites the history with the given entries and current index.
// Out-of-range indexes are clamped so a malformed snapshot cannot leave the
// history pointing outside its entries.
func (h *NavigationHistory) Replace(entries []HistoryEntry, current int) {
	h.entries = make([]HistoryEntry, len(entries))
	copy(h.entries, entries)
	switch {
	case len(h.entries) == 0:
		h.current = -1
	case current < 0:
		h.current = 0
	case current >= len(h.entries):
		h.current = len(h.entries) - 1
	default:
		h.current = current
	}
}
