package ui

import "github.com/charmbracelet/lipgloss"

// Phosphor palette
var (
	ColorPhosphor     = lipgloss.Color("#00FF00")
	ColorGreen        = lipgloss.Color("#00CC33")
	ColorMidGreen     = lipgloss.Color("#009600")
	ColorDimGreen     = lipgloss.Color("#004A0A")
	ColorContact      = lipgloss.Color("#FF0000")
	ColorBorderBright = lipgloss.Color("#00FF00")
	ColorBorderNorm   = lipgloss.Color("#00AA22")
	ColorWarning      = lipgloss.Color("#FFAA00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorPhosphor).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStateRunning = lipgloss.NewStyle().
				Foreground(ColorPhosphor).
				Bold(true)

	StyleStateStopping = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderBright)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true).
			Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleContact = lipgloss.NewStyle().
			Foreground(ColorContact).
			Bold(true)

	StyleFault = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleRule = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleLegendSweep = lipgloss.NewStyle().
				Foreground(ColorPhosphor)

	StyleLegendContact = lipgloss.NewStyle().
				Foreground(ColorContact)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)
)
