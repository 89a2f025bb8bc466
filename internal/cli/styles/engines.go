package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EnginesRenderer renders the detected backend list.
type EnginesRenderer struct {
	theme *Theme
}

// NewEnginesRenderer creates a renderer bound to a theme.
func NewEnginesRenderer(theme *Theme) *EnginesRenderer {
	return &EnginesRenderer{theme: theme}
}

// EnginesReport is the CLI view of one detection pass.
type EnginesReport struct {
	Preferred string
	Default   string
	Rows      []EngineRow
}

// EngineRow describes one detected backend.
type EngineRow struct {
	ID           string
	DisplayName  string
	Origin       string
	Capabilities []string
}

// Render produces the styled engine listing.
func (r *EnginesRenderer) Render(report EnginesReport) string {
	header := r.renderHeader(len(report.Rows))

	if len(report.Rows) == 0 {
		empty := r.theme.ErrorStyle.Render(IconX + " no rendering backends detected")
		return lipgloss.JoinVertical(lipgloss.Left, header, "", empty)
	}

	lines := make([]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		lines = append(lines, r.renderRow(row, report))
	}
	body := strings.Join(lines, "\n")
	box := r.theme.Box.Render(
		r.theme.BoxHeader.Render(fmt.Sprintf("%s Backends", r.theme.Highlight.Render(IconGear))) + "\n" + body,
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", box)
}

func (r *EnginesRenderer) renderHeader(count int) string {
	title := fmt.Sprintf(
		"%s %s",
		r.theme.Highlight.Render(IconGlobe),
		r.theme.Title.Render("Engines"),
	)
	badge := r.theme.BadgeMuted.Render(fmt.Sprintf("%d detected", count))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (r *EnginesRenderer) renderRow(row EngineRow, report EnginesReport) string {
	marker := " "
	badges := []string{}
	if row.ID == report.Preferred {
		marker = r.theme.Highlight.Render(IconStar)
		badges = append(badges, r.theme.Badge.Render("preferred"))
	}
	if row.ID == report.Default {
		badges = append(badges, r.theme.BadgeMuted.Render("default"))
	}

	name := r.theme.Normal.Render(row.DisplayName)
	id := r.theme.Subtle.Render(fmt.Sprintf("(%s)", row.ID))
	head := fmt.Sprintf("%s %s %s", marker, name, id)
	if len(badges) > 0 {
		head = head + " " + strings.Join(badges, " ")
	}

	caps := "none"
	if len(row.Capabilities) > 0 {
		caps = strings.Join(row.Capabilities, ", ")
	}
	detail := fmt.Sprintf(
		"  %s %s  %s %s",
		r.theme.Subtle.Render("origin"),
		r.theme.Normal.Render(row.Origin),
		r.theme.Subtle.Render("caps"),
		r.theme.Normal.Render(caps),
	)

	return head + "\n" + detail
}
