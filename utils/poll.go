package utils

import (
	"context"
	"time"
)

// Poller re-checks a condition at a fixed interval until it clears. There is
// no attempt limit; only the context or a nil-error false result ends it.
type Poller struct {
	Interval time.Duration
	Logger   *Logger

	// Wake, if set, cuts the current interval short. Each receive triggers
	// one early re-check.
	Wake <-chan struct{}
}

// Until calls blocked repeatedly while it reports true. onBlocked runs once per
// positive check, before waiting. A check error is returned as-is.
func (p *Poller) Until(ctx context.Context, operationName string, blocked func(context.Context) (bool, error), onBlocked func(attempt int)) error {
	wake := p.Wake
	for attempt := 1; ; attempt++ {
		still, err := blocked(ctx)
		if err != nil {
			return err
		}
		if !still {
			return nil
		}
		if onBlocked != nil {
			onBlocked(attempt)
		}
		if p.Logger != nil {
			p.Logger.Debug("[poll] %s still blocked (check %d), next check in %v", operationName, attempt, p.Interval)
		}

		if err := p.wait(ctx, &wake); err != nil {
			return err
		}
	}
}

// wait blocks for one interval. A closed wake channel is dropped so it stops
// firing.
func (p *Poller) wait(ctx context.Context, wake *<-chan struct{}) error {
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-*wake:
			if ok {
				return nil
			}
			*wake = nil
		case <-timer.C:
			return nil
		}
	}
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
