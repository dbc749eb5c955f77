// Package styles defines the flamegrid TUI style/theme tokens.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/flamegrid/flamegrid/internal/category"
)

// ChromeColors defines non-content UI colors.
type ChromeColors struct {
	Header    string
	Footer    string
	Muted     string
	Accent    string
	Selection string
}

// Theme defines the flamegrid TUI style/theme tokens. Category colors remap
// the table's base colors for display; the core's dominant resolution is
// unaffected by theming.
type Theme struct {
	Name string

	Chrome ChromeColors

	// Categories maps each category kind to its themed color.
	Categories [category.NumKinds]string
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// DefaultTheme is the standard dark palette.
var DefaultTheme = Theme{
	Name: "default",
	Chrome: ChromeColors{
		Header:    "#7aa2f7",
		Footer:    "#565f89",
		Muted:     "#565f89",
		Accent:    "#bb9af7",
		Selection: "#33467c",
	},
	Categories: [category.NumKinds]string{
		category.KindDML:      "#2dd4bf",
		category.KindSOQL:     "#c084fc",
		category.KindCodeUnit: "#a3e635",
		category.KindFlow:     "#34d399",
		category.KindWorkflow: "#fb923c",
		category.KindMethod:   "#60a5fa",
		category.KindSystem:   "#f472b6",
		category.KindOther:    "#9ca3af",
	},
}

// HighContrastTheme trades hue variety for legibility.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Chrome: ChromeColors{
		Header:    "#ffffff",
		Footer:    "#bbbbbb",
		Muted:     "#999999",
		Accent:    "#ffff00",
		Selection: "#005f87",
	},
	Categories: [category.NumKinds]string{
		category.KindDML:      "#00ffff",
		category.KindSOQL:     "#ff00ff",
		category.KindCodeUnit: "#00ff00",
		category.KindFlow:     "#00d787",
		category.KindWorkflow: "#ffaf00",
		category.KindMethod:   "#5fafff",
		category.KindSystem:   "#ff5faf",
		category.KindOther:    "#d0d0d0",
	},
}

// Lookup returns the named theme, falling back to the default palette.
func Lookup(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return DefaultTheme
}

// Category returns the themed color for a category kind.
func (t Theme) Category(k category.Kind) string {
	if int(k) >= category.NumKinds {
		k = category.KindOther
	}
	return t.Categories[k]
}

// HeaderStyle styles the title bar.
func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Header)).Bold(true)
}

// FooterStyle styles the status/help line.
func (t Theme) FooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Footer))
}

// MutedStyle styles secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Muted))
}

// AccentStyle styles highlighted text.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Accent))
}
