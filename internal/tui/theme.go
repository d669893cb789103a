package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	MedGreen    = lipgloss.Color("#00C832")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#003B00")
	Cyan        = lipgloss.Color("#00D4AA")
	MidGray     = lipgloss.Color("#3a3a4e")
	White       = lipgloss.Color("#e0e0e0")
	Gold        = lipgloss.Color("#FFD700")
	Red         = lipgloss.Color("#FF4136")

	// Section labels in help and listings
	LabelStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	// Student names
	NameStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(White)

	// Muted detail such as dates and counts
	DetailStyle = lipgloss.NewStyle().
			Foreground(MidGray)

	// Diff output
	AddedStyle = lipgloss.NewStyle().
			Foreground(MedGreen)

	RemovedStyle = lipgloss.NewStyle().
			Foreground(Red)

	HunkStyle = lipgloss.NewStyle().
			Foreground(DarkGreen).
			Italic(true)

	// Warnings that do not stop a command
	WarnStyle = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	// Banner
	BannerStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// Error
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGreen)

	// Boxed profile card
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 1)
)
