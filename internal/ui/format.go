package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/mgutz/ansi"
)

var (
	// Check if output supports colors
	supportsColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Color functions
	ColorSuccess  = colorFunc(ansi.Green)
	ColorError    = colorFunc(ansi.Red)
	ColorWarning  = colorFunc(ansi.Yellow)
	ColorInfo     = colorFunc(ansi.Cyan)
	ColorProgress = colorFunc(ansi.Blue)
	ColorBold     = colorFunc("default+b")
	ColorDim      = colorFunc("default+h")
)

// colorFunc returns a function that colors text if supported
func colorFunc(color string) func(string) string {
	return func(text string) string {
		if supportsColor {
			return ansi.Color(text, color)
		}
		return text
	}
}

// SupportsColor reports whether stdout is a terminal
func SupportsColor() bool {
	return supportsColor
}

// Header displays a formatted header
func (u *UI) Header(title string) {
	if u.Quiet {
		return
	}
	width := 50
	titleWidth := runewidth.StringWidth(title)
	padding := (width - titleWidth - 2) / 2
	if padding < 0 {
		padding = 0
	}
	right := width - 2 - padding - titleWidth
	if right < 0 {
		right = 0
	}

	fmt.Fprintln(u.Out, "\n+"+strings.Repeat("-", width-2)+"+")
	fmt.Fprintf(u.Out, "|%s%s%s|\n",
		strings.Repeat(" ", padding),
		ColorBold(title),
		strings.Repeat(" ", right),
	)
	fmt.Fprintln(u.Out, "+"+strings.Repeat("-", width-2)+"+")
}

// Success displays a success message
func (u *UI) Success(message string) {
	u.Printf("%s %s\n", ColorSuccess("SUCCESS:"), message)
}

// Warning displays a warning message
func (u *UI) Warning(message string) {
	u.Printf("%s %s\n", ColorWarning("WARNING:"), ColorWarning(message))
}

// Info displays an info message
func (u *UI) Info(message string) {
	u.Printf("%s %s\n", ColorInfo("INFO:"), message)
}

// KeyValue prints an aligned key/value pair
func (u *UI) KeyValue(key, value string) {
	u.Printf("  %-12s %s\n", key+":", value)
}

// Error displays a formatted error. Errors are shown even in quiet mode.
func (u *UI) Error(err error) {
	fmt.Fprintf(u.Out, "\n%s\n", ColorError("ERROR:"))

	message := err.Error()
	for i, line := range strings.Split(message, "\n") {
		if i == 0 {
			fmt.Fprintf(u.Out, "  %s\n", line)
		} else {
			fmt.Fprintf(u.Out, "  %s\n", ColorDim(line))
		}
	}

	if suggestion := getSuggestion(message); suggestion != "" {
		fmt.Fprintf(u.Out, "\n  %s %s\n", ColorInfo("TIP:"), ColorInfo(suggestion))
	}
}

// getSuggestion returns a hint for errors that carry no suggestions of their own
func getSuggestion(message string) string {
	if strings.Contains(message, "Suggestions:") {
		return ""
	}
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "incorrect username or password"):
		return "Check snowflake.username and the password in SF_PASSWORD or the OS keyring"
	case strings.Contains(lower, "connection refused"), strings.Contains(lower, "no such host"):
		return "Verify the Snowflake account identifier and network connectivity"
	case strings.Contains(lower, "invalid_grant"), strings.Contains(lower, "private key"):
		return "Check the service account key in GOOGLE_JSON_KEY or sheets.credentials_file"
	case strings.Contains(lower, "does not exist"):
		return "Verify the table exists in the configured database and schema"
	default:
		return ""
	}
}
