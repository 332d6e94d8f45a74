package imovelweb

import (
	"math/rand/v2"
	"time"
)

// DesktopUserAgents are rotated across page sessions.
var DesktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// UserAgentPicker chooses the user agent for the next session.
type UserAgentPicker interface {
	Pick() string
}

// RandomUserAgent picks uniformly from a fixed pool.
type RandomUserAgent struct {
	Pool []string
}

func (r RandomUserAgent) Pick() string {
	pool := r.Pool
	if len(pool) == 0 {
		pool = DesktopUserAgents
	}
	return pool[rand.IntN(len(pool))]
}

// FixedUserAgent always returns the same string.
type FixedUserAgent string

func (f FixedUserAgent) Pick() string { return string(f) }

// DelayStrategy chooses the cooldown after each page.
type DelayStrategy interface {
	Next() time.Duration
}

// UniformDelay draws from [Min, Max].
type UniformDelay struct {
	Min, Max time.Duration
}

func (u UniformDelay) Next() time.Duration {
	if u.Max <= u.Min {
		return u.Min
	}
	return u.Min + rand.N(u.Max-u.Min+1)
}

// FixedDelay always waits the same duration.
type FixedDelay time.Duration

func (f FixedDelay) Next() time.Duration { return time.Duration(f) }
