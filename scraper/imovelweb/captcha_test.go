package imovelweb

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"imovelweb-scraper/utils"
)

// probeSession only answers CaptchaPresent.
type probeSession struct {
	fakeSession
	answers []bool
	err     error
	calls   int
}

func (p *probeSession) CaptchaPresent(context.Context) (bool, error) {
	p.calls++
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return false, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func TestCaptchaGateProbeErrorProceeds(t *testing.T) {
	gate := NewCaptchaGate(time.Hour, nil, utils.NewLoggerTo(io.Discard), nil)
	s := &probeSession{err: errors.New("element lookup failed")}

	if err := gate.Wait(context.Background(), s, 1); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.calls != 1 {
		t.Errorf("calls: got %d, want 1", s.calls)
	}
}

func TestCaptchaGatePollsOnInterval(t *testing.T) {
	gate := NewCaptchaGate(time.Millisecond, nil, utils.NewLoggerTo(io.Discard), nil)
	s := &probeSession{answers: []bool{true, true, true, false}}

	if err := gate.Wait(context.Background(), s, 1); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.calls != 4 {
		t.Errorf("calls: got %d, want 4", s.calls)
	}
}

func TestLineSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := LineSignal(ctx, strings.NewReader("\n"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a signal for one line")
	}

	// The reader is exhausted, so the channel closes.
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected the channel to be closed after EOF")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after EOF")
	}
}
