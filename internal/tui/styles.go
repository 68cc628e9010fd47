package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	PrimaryColor = lipgloss.Color("39")  // Blue
	LinkColor    = lipgloss.Color("75")  // Light blue
	URLColor     = lipgloss.Color("44")  // Cyan
	MatchColor   = lipgloss.Color("227") // Yellow
	CurrentColor = lipgloss.Color("214") // Orange
	AccentColor  = lipgloss.Color("76")  // Green
	ErrorColor   = lipgloss.Color("196") // Red
	MutedColor   = lipgloss.Color("240") // Gray
	TextColor    = lipgloss.Color("252") // Light gray
	BgColor      = lipgloss.Color("235") // Dark gray
)

// Styles
var (
	// Sidebar styles
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	SidebarTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				Padding(0, 1).
				MarginBottom(1)

	NoteItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	NoteItemSelectedStyle = lipgloss.NewStyle().
				Background(PrimaryColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	NoteItemActiveStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true).
				Padding(0, 1)

	// Content viewport styles
	ContentStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	// Segment styles
	LinkStyle = lipgloss.NewStyle().
			Foreground(LinkColor).
			Underline(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(URLColor).
			Underline(true)

	SelectedSpanStyle = lipgloss.NewStyle().
				Background(LinkColor).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	MatchStyle = lipgloss.NewStyle().
			Background(MatchColor).
			Foreground(lipgloss.Color("0"))

	CurrentMatchStyle = lipgloss.NewStyle().
				Background(CurrentColor).
				Foreground(lipgloss.Color("0")).
				Bold(true)

	// Find/replace bar styles
	BarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	BarFocusedStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(AccentColor).
			Padding(0, 1)

	BarLabelStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	OptionOnStyle = lipgloss.NewStyle().
			Background(AccentColor).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	OptionOffStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Background(BgColor).
			Foreground(TextColor).
			Padding(0, 1)

	StatusPathStyle = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			MarginRight(1)

	StatusMatchStyle = lipgloss.NewStyle().
				Background(CurrentColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Background(ErrorColor).
				Foreground(lipgloss.Color("0")).
				Padding(0, 1)

	// Help styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)
