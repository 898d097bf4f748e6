package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressBar(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	pb := NewProgressBar(&buf, 2)

	pb.Update(1, "monthly goals", true)
	if !strings.Contains(buf.String(), "50% [1/2] monthly goals") {
		t.Errorf("Unexpected progress line %q", buf.String())
	}

	pb.Update(2, "calendar", false)
	if pb.successCount != 1 || pb.failureCount != 1 {
		t.Errorf("Expected 1 success and 1 failure, got %d and %d", pb.successCount, pb.failureCount)
	}

	buf.Reset()
	pb.Finish("Export")
	out := buf.String()
	if !strings.Contains(out, "Export completed in") {
		t.Errorf("Expected completion line, got %q", out)
	}
	if !strings.Contains(out, "1 successful") || !strings.Contains(out, "1 skipped") {
		t.Errorf("Expected totals, got %q", out)
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	pb := NewProgressBar(&buf, 0)
	pb.Update(0, "nothing", true)

	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("Expected a full bar for an empty run, got %q", buf.String())
	}
}

func TestProgressBarTruncatesLongItems(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	pb := NewProgressBar(&buf, 1)
	pb.Update(1, strings.Repeat("가", 60), true)

	if !strings.Contains(buf.String(), "..."+strings.Repeat("가", 37)) {
		t.Errorf("Expected truncated item, got %q", buf.String())
	}
}

func TestSpinner(t *testing.T) {
	withoutColor(t)

	buf := &syncBuffer{}
	s := NewSpinner(buf, "Connecting")
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop(true, "Connected")
	s.Stop(false, "ignored")

	out := buf.String()
	if !strings.Contains(out, "Connecting") {
		t.Errorf("Expected spinner frames, got %q", out)
	}
	if !strings.HasSuffix(out, "✓ Connected\n") {
		t.Errorf("Expected final status line, got %q", out)
	}
	if strings.Contains(out, "ignored") {
		t.Error("Second Stop should be a no-op")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2*time.Minute + 5*time.Second, "2m5s"},
		{3*time.Hour + 20*time.Minute, "3h20m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.duration); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
		}
	}
}
