package handlers

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(14)

	readyStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Foreground(colorRed)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	warnMark  = "[??]"
)

// painter renders styles only when writing to a terminal.
type painter struct {
	styled bool
}

func newPainter() painter {
	return painter{styled: isInteractiveTTY()}
}

func (p painter) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p painter) section(s string) string {
	return p.render(sectionStyle, s)
}

func (p painter) label(s string) string {
	if !p.styled {
		return fmt.Sprintf("%-14s", s)
	}
	return labelStyle.Render(s)
}

func (p painter) ok(s string) string {
	return p.render(readyStyle, checkMark+" "+s)
}

func (p painter) fail(s string) string {
	return p.render(failedStyle, crossMark+" "+s)
}

func (p painter) warn(s string) string {
	return p.render(warningStyle, warnMark+" "+s)
}
