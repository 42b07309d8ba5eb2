// ABOUTME: Periodic runner for the reminder scanner
// ABOUTME: Clamps the interval, recovers panics and reports each result

package reminders

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// MinInterval is the shortest allowed gap between two scans.
const MinInterval = 15 * time.Minute

type Scheduler struct {
	scanner  *Scanner
	interval time.Duration
	logger   *log.Logger

	// OnResult is called after every scan when set.
	OnResult func(Result, error)
}

// NewScheduler runs scanner every interval, never more often than MinInterval.
func NewScheduler(scanner *Scanner, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval < MinInterval {
		interval = MinInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scheduler{scanner: scanner, interval: interval, logger: logger}
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// RunOnce scans once. A panic inside the scan is reported as Failed.
func (s *Scheduler) RunOnce(ctx context.Context) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = Failed, fmt.Errorf("reminder scan panicked: %v", r)
		}
		if err != nil {
			s.logger.Error("reminder scan failed", "err", err)
		} else {
			s.logger.Debug("reminder scan finished", "result", result)
		}
		if s.OnResult != nil {
			s.OnResult(result, err)
		}
	}()
	return s.scanner.Scan(ctx)
}

// Run scans immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	_, _ = s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
