package imovelweb

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"imovelweb-scraper/utils"
)

// RobotsChecker answers whether a URL may be fetched for an agent. robots.txt
// is fetched once per host; an unreachable or unparsable file allows all.
type RobotsChecker struct {
	agent  string
	client *http.Client
	logger *utils.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.Group
}

func NewRobotsChecker(agent string, client *http.Client, logger *utils.Logger) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsChecker{
		agent:  agent,
		client: client,
		logger: logger,
		cache:  make(map[string]*robotstxt.Group),
	}
}

func (r *RobotsChecker) Allowed(ctx context.Context, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.cache[u.Host]
	if !ok {
		group = r.fetch(ctx, u)
		r.cache[u.Host] = group
	}
	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (r *RobotsChecker) fetch(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("[robots] fetch %s failed, allowing all: %v", robotsURL, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		r.logger.Debug("[robots] parse %s failed, allowing all: %v", robotsURL, err)
		return nil
	}
	return data.FindGroup(r.agent)
}
