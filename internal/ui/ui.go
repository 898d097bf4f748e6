package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// UI writes status lines for the CLI
type UI struct {
	Out     io.Writer
	Verbose bool
	Quiet   bool
	spinner *Spinner
}

// NewUI creates a new UI instance writing to stdout
func NewUI(verbose, quiet bool) *UI {
	return &UI{Out: os.Stdout, Verbose: verbose, Quiet: quiet}
}

// IsVerbose returns true if verbose mode is enabled
func (u *UI) IsVerbose() bool {
	return u.Verbose
}

// IsQuiet returns true if quiet mode is enabled
func (u *UI) IsQuiet() bool {
	return u.Quiet
}

// Printf prints formatted output if not in quiet mode
func (u *UI) Printf(format string, args ...interface{}) {
	if !u.Quiet {
		fmt.Fprintf(u.Out, format, args...)
	}
}

// VerbosePrintf prints formatted output only in verbose mode
func (u *UI) VerbosePrintf(format string, args ...interface{}) {
	if u.Verbose && !u.Quiet {
		fmt.Fprintf(u.Out, format, args...)
	}
}

// Section prints a section header
func (u *UI) Section(title string) {
	u.Printf("\n%s %s\n", ColorBold("▶"), ColorBold(title))
	u.Printf("%s\n", strings.Repeat("─", 50))
}

// StartProgress starts a spinner. It stays silent in quiet mode and when
// stdout is not a terminal, so scheduled runs do not fill their logs with frames.
func (u *UI) StartProgress(message string) {
	if u.Quiet || !SupportsColor() {
		return
	}
	u.spinner = NewSpinner(u.Out, message)
	u.spinner.Start()
}

// StopProgress stops the spinner and prints the final status line.
func (u *UI) StopProgress(success bool, message string) {
	if u.spinner == nil {
		if success {
			u.Success(message)
		}
		return
	}
	u.spinner.Stop(success, message)
	u.spinner = nil
}
