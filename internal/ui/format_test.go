package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/Ever-fnf/imc/pkg/errors"
)

// withoutColor disables ANSI output for the duration of a test.
func withoutColor(t *testing.T) {
	t.Helper()
	original := supportsColor
	supportsColor = false
	t.Cleanup(func() { supportsColor = original })
}

func newBufferUI(verbose, quiet bool) (*UI, *bytes.Buffer) {
	var buf bytes.Buffer
	return &UI{Out: &buf, Verbose: verbose, Quiet: quiet}, &buf
}

func TestColorFunc(t *testing.T) {
	original := supportsColor
	defer func() { supportsColor = original }()

	funcs := []func(string) string{
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
		ColorProgress,
		ColorBold,
		ColorDim,
	}

	supportsColor = true
	for _, f := range funcs {
		if got := f("text"); got == "text" || !strings.Contains(got, "text") {
			t.Errorf("Expected colored output around the text, got %q", got)
		}
	}

	supportsColor = false
	for _, f := range funcs {
		if got := f("text"); got != "text" {
			t.Errorf("Expected plain text, got %q", got)
		}
	}
}

func TestMessages(t *testing.T) {
	withoutColor(t)

	tests := []struct {
		name     string
		print    func(u *UI)
		expected string
	}{
		{"success", func(u *UI) { u.Success("Loaded 12 rows") }, "SUCCESS: Loaded 12 rows\n"},
		{"warning", func(u *UI) { u.Warning("tab missing") }, "WARNING: tab missing\n"},
		{"info", func(u *UI) { u.Info("Connecting") }, "INFO: Connecting\n"},
		{"key value", func(u *UI) { u.KeyValue("Table", "PROMOTION_PLAN") }, "  Table:       PROMOTION_PLAN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, buf := newBufferUI(false, false)
			tt.print(u)
			if buf.String() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, buf.String())
			}

			quiet, quietBuf := newBufferUI(false, true)
			tt.print(quiet)
			if quietBuf.Len() != 0 {
				t.Errorf("Quiet mode should print nothing, got %q", quietBuf.String())
			}
		})
	}
}

func TestHeader(t *testing.T) {
	withoutColor(t)

	for _, title := range []string{"imc report", "프로모션 리포트"} {
		u, buf := newBufferUI(false, false)
		u.Header(title)

		lines := strings.Split(strings.Trim(buf.String(), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected 3 header lines, got %d: %q", len(lines), buf.String())
		}
		if !strings.Contains(lines[1], title) {
			t.Errorf("Expected title in %q", lines[1])
		}
		if lines[0] != "+"+strings.Repeat("-", 48)+"+" {
			t.Errorf("Unexpected border %q", lines[0])
		}
	}
}

func TestErrorAlwaysShown(t *testing.T) {
	withoutColor(t)

	u, buf := newBufferUI(false, true)
	u.Error(errors.New("dial tcp: connection refused"))

	out := buf.String()
	if !strings.Contains(out, "ERROR:") || !strings.Contains(out, "connection refused") {
		t.Errorf("Expected error output, got %q", out)
	}
	if !strings.Contains(out, "TIP:") {
		t.Errorf("Expected a tip for connection errors, got %q", out)
	}
}

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		message  string
		contains string
	}{
		{"390100 (08004): Incorrect username or password was specified.", "SF_PASSWORD"},
		{"dial tcp: lookup x.snowflakecomputing.com: no such host", "account identifier"},
		{"oauth2: cannot fetch token: invalid_grant", "GOOGLE_JSON_KEY"},
		{"Object 'SALES' does not exist or not authorized.", "table exists"},
		{"something else entirely", ""},
	}

	for _, tt := range tests {
		got := getSuggestion(tt.message)
		if tt.contains == "" && got != "" {
			t.Errorf("getSuggestion(%q) = %q, want none", tt.message, got)
		}
		if tt.contains != "" && !strings.Contains(got, tt.contains) {
			t.Errorf("getSuggestion(%q) = %q, want it to mention %q", tt.message, got, tt.contains)
		}
	}
}

func TestGetSuggestionDefersToErrorSuggestions(t *testing.T) {
	err := apperrors.New(apperrors.ErrCodeConnectionFailed, "connection refused").
		WithSuggestions("Check the VPN")
	if got := getSuggestion(err.Error()); got != "" {
		t.Errorf("Expected no extra tip, got %q", got)
	}
}
