package imovelweb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"imovelweb-scraper/observability"
	"imovelweb-scraper/utils"
)

// CaptchaGate blocks a page until its CAPTCHA challenge is gone. Solving is
// left to a human operator; the gate never gives up on its own.
type CaptchaGate struct {
	poller  *utils.Poller
	logger  *utils.Logger
	metrics *observability.Metrics
}

// NewCaptchaGate re-probes every interval. A receive on solved triggers an
// immediate re-probe; solved may be nil.
func NewCaptchaGate(interval time.Duration, solved <-chan struct{}, logger *utils.Logger, metrics *observability.Metrics) *CaptchaGate {
	return &CaptchaGate{
		poller: &utils.Poller{
			Interval: interval,
			Logger:   logger,
			Wake:     solved,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Wait returns once the session shows no CAPTCHA or ctx is done. A failing
// probe is treated as "no CAPTCHA" so scraping proceeds.
func (g *CaptchaGate) Wait(ctx context.Context, session Session, page int) error {
	probe := func(ctx context.Context) (bool, error) {
		present, err := session.CaptchaPresent(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			g.logger.Debug("[captcha] Probe on page %d failed, assuming no CAPTCHA: %v", page, err)
			return false, nil
		}
		return present, nil
	}

	err := g.poller.Until(ctx, fmt.Sprintf("captcha page %d", page), probe, func(attempt int) {
		if g.metrics != nil {
			g.metrics.CaptchaChecks.Inc()
		}
		g.logger.Warn("[captcha] CAPTCHA detected on page %d (check %d). Solve it in the browser window; press Enter to re-check now.", page, attempt)
	})
	if err != nil {
		return fmt.Errorf("imovelweb: captcha wait on page %d: %w", page, err)
	}
	return nil
}

// LineSignal turns each line read from r into a solved signal. Signals that
// arrive while one is already pending are dropped. The channel closes at EOF
// or when ctx is done.
func LineSignal(ctx context.Context, r io.Reader) <-chan struct{} {
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch
}
