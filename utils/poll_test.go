package utils

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func TestPollerUntilClears(t *testing.T) {
	p := &Poller{Interval: time.Millisecond, Logger: NewLoggerTo(io.Discard)}

	checks := 0
	notified := 0
	err := p.Until(context.Background(), "test", func(context.Context) (bool, error) {
		checks++
		return checks < 4, nil
	}, func(int) { notified++ })

	if err != nil {
		t.Fatalf("Until: %v", err)
	}
	if checks != 4 {
		t.Errorf("checks: got %d, want 4", checks)
	}
	if notified != 3 {
		t.Errorf("onBlocked calls: got %d, want 3", notified)
	}
}

func TestPollerWakeSkipsInterval(t *testing.T) {
	wake := make(chan struct{}, 1)
	p := &Poller{Interval: time.Hour, Wake: wake}

	checks := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Until(context.Background(), "test", func(context.Context) (bool, error) {
			checks++
			return checks < 2, nil
		}, nil)
	}()

	wake <- struct{}{}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Until: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("wake signal did not end the wait")
	}
}

func TestPollerClosedWakeFallsBackToInterval(t *testing.T) {
	wake := make(chan struct{})
	close(wake)
	p := &Poller{Interval: 20 * time.Millisecond, Wake: wake}

	checks := 0
	start := time.Now()
	err := p.Until(context.Background(), "test", func(context.Context) (bool, error) {
		checks++
		return checks < 3, nil
	}, nil)
	if err != nil {
		t.Fatalf("Until: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("closed wake should not skip intervals, finished in %v", elapsed)
	}
}

func TestPollerContextCancel(t *testing.T) {
	p := &Poller{Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.Until(ctx, "test", func(context.Context) (bool, error) { return true, nil }, nil)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error: got %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not end the wait")
	}
}

func TestPollerCheckError(t *testing.T) {
	p := &Poller{Interval: time.Millisecond}
	boom := errors.New("boom")
	err := p.Until(context.Background(), "test", func(context.Context) (bool, error) { return false, boom }, nil)
	if !errors.Is(err, boom) {
		t.Errorf("error: got %v, want %v", err, boom)
	}
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep on cancelled ctx: got %v, want context.Canceled", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0): got %v, want nil", err)
	}
}
