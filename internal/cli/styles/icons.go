// Package styles provides reusable lipgloss-based CLI components.
package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe   = "\uf0ac" // browser/web
	IconGear    = "\uf013" // gear/engine
	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconStar    = "\uf005" // star (preferred)
	IconPackage = "\uf187" // archive/package
	IconDesktop = "\uf108" // desktop
	IconArrow   = "\uf061" // arrow right
)
