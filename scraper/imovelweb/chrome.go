package imovelweb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// elementWait bounds how long a single lookup waits for an element.
const elementWait = 5 * time.Second

// ChromeOptions configures the browser process started for each page.
type ChromeOptions struct {
	ExecPath    string
	Headless    bool
	PageTimeout time.Duration
}

// ChromeBrowser starts a new Chrome process per session through chromedp.
type ChromeBrowser struct {
	opts ChromeOptions
}

// NewChromeBrowser resolves the Chrome binary and returns a Browser.
func NewChromeBrowser(opts ChromeOptions) *ChromeBrowser {
	if opts.ExecPath == "" {
		opts.ExecPath = findChromeBinary()
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 90 * time.Second
	}
	return &ChromeBrowser{opts: opts}
}

// ExecPath is the resolved browser binary, empty when chromedp should search.
func (b *ChromeBrowser) ExecPath() string {
	return b.opts.ExecPath
}

// Open launches Chrome with the given user agent. The session's lifetime is
// bound to ctx.
func (b *ChromeBrowser) Open(ctx context.Context, userAgent string) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("disable-gpu", b.opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("chromedp start: %w", err)
	}

	return &chromeSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		pageTimeout: b.opts.PageTimeout,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	pageTimeout time.Duration
}

// run executes actions on the tab with a timeout. The tab context already
// follows the ctx given to Open; the caller's ctx is checked up front.
func (s *chromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.pageTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("chromedp navigate %s: %w", url, err)
	}
	return nil
}

func (s *chromeSession) AcceptCookies(ctx context.Context) error {
	err := s.run(ctx, elementWait,
		chromedp.Click(CookieButtonXPath, chromedp.BySearch),
	)
	if err != nil {
		return fmt.Errorf("chromedp click cookie banner: %w", err)
	}
	return nil
}

func (s *chromeSession) CaptchaPresent(ctx context.Context) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, elementWait,
		chromedp.Nodes(CaptchaIndicatorPath, &nodes, chromedp.BySearch, chromedp.AtLeast(0)),
	)
	if err != nil {
		return false, fmt.Errorf("chromedp captcha probe: %w", err)
	}
	return len(nodes) > 0, nil
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, s.pageTimeout,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp page source: %w", err)
	}
	return html, nil
}

// Close shuts the browser down and releases the allocator.
func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("chromedp close: %w", err)
	}
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
