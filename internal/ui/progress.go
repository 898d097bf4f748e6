package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar tracks a fixed number of steps, such as the tabs of an export run.
type ProgressBar struct {
	out       io.Writer
	total     int
	current   int
	startTime time.Time
	mu        sync.Mutex

	successCount int
	failureCount int
	currentItem  string
}

// NewProgressBar creates a progress bar writing to out
func NewProgressBar(out io.Writer, total int) *ProgressBar {
	return &ProgressBar{
		out:       out,
		total:     total,
		startTime: time.Now(),
	}
}

// Update records step current as finished for item.
func (p *ProgressBar) Update(current int, item string, success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.currentItem = item

	if success {
		p.successCount++
	} else {
		p.failureCount++
	}

	p.render()
}

// Finish prints the totals
func (p *ProgressBar) Finish(what string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Fprintf(p.out, "\n%s %s completed in %s\n",
		ColorSuccess("✓"),
		what,
		formatDuration(elapsed),
	)
	fmt.Fprintf(p.out, "  %s %d successful\n", ColorSuccess("✓"), p.successCount)
	if p.failureCount > 0 {
		fmt.Fprintf(p.out, "  %s %d skipped\n", ColorWarning("!"), p.failureCount)
	}
}

func (p *ProgressBar) percentage() float64 {
	if p.total <= 0 {
		return 100
	}
	return float64(p.current) / float64(p.total) * 100
}

func (p *ProgressBar) render() {
	fmt.Fprint(p.out, "\r\033[K")

	percentage := p.percentage()

	barWidth := 30
	filled := int(percentage / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	item := p.currentItem
	if len([]rune(item)) > 40 {
		r := []rune(item)
		item = "..." + string(r[len(r)-37:])
	}

	fmt.Fprintf(p.out, "%s %s %.0f%% [%d/%d] %s - %s",
		ColorProgress("►"),
		bar,
		percentage,
		p.current,
		p.total,
		item,
		formatDuration(time.Since(p.startTime)),
	)
}

// Spinner animates while a blocking call such as a warehouse connect runs.
type Spinner struct {
	out     io.Writer
	frames  []string
	current int
	message string
	stop    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewSpinner creates a new spinner
func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message: message,
		stop:    make(chan struct{}),
	}
}

// Start begins the spinner animation
func (s *Spinner) Start() {
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(s.out, "\r%s %s %s",
						ColorProgress(s.frames[s.current]),
						s.message,
						strings.Repeat(" ", 20),
					)
					s.current = (s.current + 1) % len(s.frames)
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and prints the final status. Calling it twice is a no-op.
func (s *Spinner) Stop(success bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stop)

	fmt.Fprint(s.out, "\r\033[K")
	if success {
		fmt.Fprintf(s.out, "%s %s\n", ColorSuccess("✓"), message)
	} else {
		fmt.Fprintf(s.out, "%s %s\n", ColorError("✗"), message)
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
