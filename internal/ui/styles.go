package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A")                                 // green: success, review
	ColorWarning   = lipgloss.Color("#FFB800")                                 // yellow: approve, warnings
	ColorError     = lipgloss.Color("#FF4444")                                 // red: errors, insufficient balance
	ColorAddress   = lipgloss.Color("#00B4D8")                                 // cyan: addresses, hashes
	ColorValue     = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#FFFFFF"} // amounts
	ColorMeta      = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#5C5C5C"} // labels, metadata
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#9DB4D0", Dark: "#1E3A5F"} // UI chrome
	ColorChain     = lipgloss.Color("#9B5DE5")                                 // purple: chain names
	ColorHighlight = lipgloss.Color("#F15BB5")                                 // pink: selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)
)

// Banner returns the coinx banner shown by the bare root command.
func Banner() string {
	art := `
   ██████╗ ██████╗ ██╗███╗   ██╗██╗  ██╗
  ██╔════╝██╔═══██╗██║████╗  ██║╚██╗██╔╝
  ██║     ██║   ██║██║██╔██╗ ██║ ╚███╔╝
  ██║     ██║   ██║██║██║╚██╗██║ ██╔██╗
  ╚██████╗╚██████╔╝██║██║ ╚████║██╔╝ ██╗
   ╚═════╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝`

	tagline := StyleMeta.Render("     Token swaps from your terminal, powered by 0x")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// Action renders the next-step label of a priced trade in the color of
// its outcome.
func Action(label string) string {
	switch label {
	case "Review Trade":
		return StyleSuccess.Render(label)
	case "Approve":
		return StyleWarning.Render(label)
	default:
		return StyleError.Render(label)
	}
}

// TruncateAddr shortens an address for display: 0x1234...abcd.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
