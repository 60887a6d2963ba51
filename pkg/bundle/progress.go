package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	progressInterval = 100 * time.Millisecond
	maxBarWidth      = 30
	minBarWidth      = 10
)

// progressSnapshot is a display-only approximation of run state. It is
// derived from worker completion events, never from the wait barrier, and is
// never the determinant of completion.
type progressSnapshot struct {
	Done  int
	Total int
}

func (s progressSnapshot) percent() int {
	if s.Total == 0 {
		return 100
	}
	return s.Done * 100 / s.Total
}

// monitor renders a live progress indicator on the diagnostic stream while
// the dispatcher runs. It counts completion events and repaints a bounded
// bar in place every 100ms; it never blocks or synchronizes with workers.
type monitor struct {
	total    int
	events   <-chan struct{}
	out      io.Writer
	isTerm   bool
	barWidth int
	logger   *zap.Logger
}

// newMonitor builds a monitor for the given expected total, probing stderr
// for terminal rendering. When stderr is not a terminal the monitor stays
// silent and only logs the final count.
func newMonitor(total int, events <-chan struct{}, logger *zap.Logger) *monitor {
	m := &monitor{
		total:    total,
		events:   events,
		out:      os.Stderr,
		isTerm:   term.IsTerminal(int(os.Stderr.Fd())),
		barWidth: maxBarWidth,
		logger:   logger,
	}
	if m.isTerm {
		if width, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
			// Leave room for the "count/total (percent%)" suffix.
			if avail := width - 20; avail < m.barWidth {
				m.barWidth = avail
			}
			if m.barWidth < minBarWidth {
				m.barWidth = minBarWidth
			}
		}
	}
	return m
}

// run observes completion events until the count reaches the total or ctx is
// interrupted. A zero total performs no work. Transient undercounting is
// fine; the count is clamped to the total.
func (m *monitor) run(ctx context.Context) error {
	if m.total == 0 {
		return nil
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	done := 0
	m.render(progressSnapshot{Done: done, Total: m.total})
	for {
		select {
		case <-ctx.Done():
			m.finish(progressSnapshot{Done: done, Total: m.total})
			return nil
		case <-m.events:
			if done < m.total {
				done++
			}
			if done == m.total {
				m.finish(progressSnapshot{Done: done, Total: m.total})
				return nil
			}
		case <-ticker.C:
			m.render(progressSnapshot{Done: done, Total: m.total})
		}
	}
}

// render repaints the indicator in place.
func (m *monitor) render(s progressSnapshot) {
	if !m.isTerm {
		return
	}
	filled := 0
	if s.Total > 0 {
		filled = s.Done * m.barWidth / s.Total
	}
	fmt.Fprintf(m.out, "\r[%s%s] %d/%d (%d%%)",
		strings.Repeat("#", filled),
		strings.Repeat("-", m.barWidth-filled),
		s.Done, s.Total, s.percent())
}

// finish paints the last state and terminates the overwritten line.
func (m *monitor) finish(s progressSnapshot) {
	if m.isTerm {
		m.render(s)
		fmt.Fprintln(m.out)
	}
	m.logger.Debug("Progress monitor stopped",
		zap.Int("observed", s.Done),
		zap.Int("total", s.Total))
}
