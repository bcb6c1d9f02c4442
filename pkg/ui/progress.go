package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay renders per-board download progress on a single
// terminal line
type ProgressDisplay struct {
	mu         sync.Mutex
	board      string
	total      int
	downloaded int
	skipped    int
	failed     int
	bytes      int64
	startTime  time.Time
}

// NewProgressDisplay creates a progress display for one board
func NewProgressDisplay(board string, total int) *ProgressDisplay {
	p := &ProgressDisplay{
		board:     board,
		total:     total,
		startTime: time.Now(),
	}
	if !quietMode {
		fmt.Printf("%s %s (%d resources)\n", Cyan("Downloading"), Yellow(board), total)
	}
	return p
}

// Complete records a finished download
func (p *ProgressDisplay) Complete(size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.downloaded++
	p.bytes += size
	p.print()
}

// Skip records a resource that already existed on disk
func (p *ProgressDisplay) Skip() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.skipped++
	p.print()
}

// Fail records a failed download
func (p *ProgressDisplay) Fail(id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	if !quietMode {
		fmt.Printf("\r\033[K%s %s: %v\n", Red("✗"), id, err)
	}
	p.print()
}

// Finish terminates the progress line and prints the board summary
func (p *ProgressDisplay) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if quietMode {
		return
	}

	elapsed := time.Since(p.startTime).Round(time.Second)
	fmt.Printf("\r\033[K%s %s: %d downloaded, %d skipped, %d failed (%s, %s)\n",
		Green("✓"), p.board, p.downloaded, p.skipped, p.failed,
		formatBytes(p.bytes), elapsed)
}

// print renders the progress line; callers hold the mutex
func (p *ProgressDisplay) print() {
	if quietMode {
		return
	}

	done := p.downloaded + p.skipped + p.failed
	percent := 0
	if p.total > 0 {
		percent = done * 100 / p.total
	}

	barWidth := 30
	filled := 0
	if p.total > 0 {
		filled = done * barWidth / p.total
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Printf("\r\033[K  [%s] %3d%% %d/%d %s", bar, percent, done, p.total, Dim(formatBytes(p.bytes)))
}

// formatBytes renders a byte count in a human-readable unit
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
