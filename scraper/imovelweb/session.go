package imovelweb

import "context"

// Browser opens one fresh browser session per results page.
type Browser interface {
	Open(ctx context.Context, userAgent string) (Session, error)
}

// Session is a single page's browser. It is closed when the page is done,
// on every path.
type Session interface {
	// Navigate loads url and waits for the document body.
	Navigate(ctx context.Context, url string) error
	// AcceptCookies clicks the cookie-policy banner button.
	AcceptCookies(ctx context.Context) error
	// CaptchaPresent reports whether a CAPTCHA challenge is on screen.
	CaptchaPresent(ctx context.Context) (bool, error)
	// HTML returns the current page source.
	HTML(ctx context.Context) (string, error)
	Close() error
}
