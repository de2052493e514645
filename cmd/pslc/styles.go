package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Name     lipgloss.Style
	Fragment lipgloss.Style
	Output   lipgloss.Style
	Muted    lipgloss.Style
	Rule     lipgloss.Style
	OK       lipgloss.Style
	Err      lipgloss.Style
	Title    lipgloss.Style
	Help     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		Name:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Fragment: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Output:   lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Rule:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		OK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
	}
}
