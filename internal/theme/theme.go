// Package theme holds the lipgloss styles of the scene panel.
package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading               *lipgloss.Style
	Heading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Footer                *lipgloss.Style
}

type palette struct {
	accent    lipgloss.Color
	text      lipgloss.Color
	bright    lipgloss.Color
	muted     lipgloss.Color
	dim       lipgloss.Color
	highlight lipgloss.Color
	alert     lipgloss.Color
}

var studio = palette{
	accent:    lipgloss.Color("33"),
	text:      lipgloss.Color("249"),
	bright:    lipgloss.Color("255"),
	muted:     lipgloss.Color("245"),
	dim:       lipgloss.Color("241"),
	highlight: lipgloss.Color("238"),
	alert:     lipgloss.Color("196"),
}

var defaultStyles = build(studio)

func build(p palette) Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return Styles{
		Loading:               ptr(fg(p.accent).Italic(true)),
		Heading:               ptr(fg(p.muted).Bold(true)),
		Item:                  ptr(fg(p.text)),
		ItemIndicator:         ptr(fg(p.highlight)),
		SelectedItemIndicator: ptr(fg(p.accent).Background(p.highlight)),
		SelectedItem:          ptr(fg(p.bright).Background(p.highlight).Bold(true)),
		Error:                 ptr(fg(p.alert).Bold(true)),
		Info:                  ptr(fg(p.text)),
		Footer:                ptr(fg(p.dim)),
	}
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
