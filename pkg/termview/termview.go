// Package termview draws the widget in a terminal.
package termview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/widget"
)

const (
	barChar   = "█"
	emptyChar = "░"

	// DefaultCells is the bar width used when none is given.
	DefaultCells = 40
)

var (
	subtle = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	muted  = lipgloss.AdaptiveColor{Light: "#7A7A7A", Dark: "#9A9A9A"}

	outlineStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle)

	chargeStyle = lipgloss.NewStyle().Bold(true).Width(16)
	remainStyle = lipgloss.NewStyle().Foreground(muted)
	statusStyle = lipgloss.NewStyle().Foreground(muted).Italic(true)
	busyStyle   = lipgloss.NewStyle().Foreground(muted).Faint(true)
)

// Filled returns how many of cells are filled for v.
func Filled(v widget.Values, cells int) int {
	work := v.OutlineWidth - 2
	if cells <= 0 || work <= 0 {
		return 0
	}

	filled := int(math.Round(v.FillWidth / work * float64(cells)))
	if filled < 0 {
		return 0
	}
	if filled > cells {
		return cells
	}
	return filled
}

// Bar renders the fill of v as cells characters. Filled cells take the
// colour of the tier gradient at their position; empty cells are dim.
func Bar(v widget.Values, cells int) string {
	if cells <= 0 {
		cells = DefaultCells
	}
	filled := Filled(v, cells)

	var b strings.Builder
	for i := 0; i < filled; i++ {
		pos := 0.0
		if filled > 1 {
			pos = float64(i) / float64(filled-1)
		}
		c := v.FillTier.ColorAt(pos)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(barChar))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(subtle).Render(strings.Repeat(emptyChar, cells-filled)))

	return b.String()
}

// Render draws the outlined bar with the charge and remaining time below.
func Render(v widget.Values, cells int) string {
	box := outlineStyle.Render(Bar(v, cells))
	if v.Opacity < 0.8 {
		box = lipgloss.NewStyle().Faint(true).Render(box)
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		chargeStyle.Render(v.Charge),
		remainStyle.Render(v.Remain),
	)

	status := statusStyle.Render(statusLabel(v.LastStatus))
	if v.IsBusy {
		status += " " + busyStyle.Render("(updating)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, box, line, status)
}

func statusLabel(s powerinfo.Status) string {
	switch s {
	case powerinfo.Charging:
		return "charging"
	case powerinfo.Discharging:
		return "on battery"
	case powerinfo.Idle:
		return "plugged in, not charging"
	default:
		return "no battery"
	}
}
