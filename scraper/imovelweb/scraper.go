package imovelweb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imovelweb-scraper/config"
	"imovelweb-scraper/models"
	"imovelweb-scraper/observability"
	"imovelweb-scraper/storage"
	"imovelweb-scraper/utils"
)

// pageState tracks where a single page is in its lifecycle.
type pageState int

const (
	statePageLoading pageState = iota
	stateCookieConsent
	stateCaptchaCheck
	stateScraping
	stateCooldown
	stateDone
)

func (s pageState) String() string {
	switch s {
	case statePageLoading:
		return "PageLoading"
	case stateCookieConsent:
		return "CookieConsent"
	case stateCaptchaCheck:
		return "CaptchaCheck"
	case stateScraping:
		return "Scraping"
	case stateCooldown:
		return "Cooldown"
	case stateDone:
		return "Done"
	default:
		return fmt.Sprintf("pageState(%d)", int(s))
	}
}

// Options carries the Scraper's collaborators. Browser and Sink are required.
type Options struct {
	Browser  Browser
	Sink     storage.RowAppender
	Agents   UserAgentPicker
	Cooldown DelayStrategy

	// Solved wakes the CAPTCHA gate early. May be nil.
	Solved <-chan struct{}
	// Robots, if set, is consulted before each page.
	Robots  *RobotsChecker
	Metrics *observability.Metrics

	// Sleep replaces utils.Sleep in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Scraper walks the search result pages in order, one browser session per
// page, and accumulates every card into a Dataset.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	browser   Browser
	sink      storage.RowAppender
	agents    UserAgentPicker
	cooldown  DelayStrategy
	robots    *RobotsChecker
	metrics   *observability.Metrics
	sleep     func(ctx context.Context, d time.Duration) error
	captcha   *CaptchaGate
	extractor *Extractor
}

// New creates a Scraper. Missing strategies fall back to the production ones.
func New(cfg *config.Config, logger *utils.Logger, opts Options) (*Scraper, error) {
	if opts.Browser == nil {
		return nil, errors.New("imovelweb: browser is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("imovelweb: sink is required")
	}
	if opts.Agents == nil {
		opts.Agents = RandomUserAgent{}
	}
	if opts.Cooldown == nil {
		opts.Cooldown = UniformDelay{Min: cfg.CooldownMin, Max: cfg.CooldownMax}
	}
	if opts.Sleep == nil {
		opts.Sleep = utils.Sleep
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics(nil)
	}

	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		browser:   opts.Browser,
		sink:      opts.Sink,
		agents:    opts.Agents,
		cooldown:  opts.Cooldown,
		robots:    opts.Robots,
		metrics:   opts.Metrics,
		sleep:     opts.Sleep,
		captcha:   NewCaptchaGate(cfg.CaptchaPoll, opts.Solved, logger, opts.Metrics),
		extractor: NewExtractor(logger, opts.Metrics),
	}, nil
}

// Scrape visits pages [StartPage, EndPage). On error the partial dataset is
// returned alongside it; its rows are already in the sink.
func (s *Scraper) Scrape(ctx context.Context) (*models.Dataset, error) {
	ds := models.NewDataset()
	s.logger.Info("[imovelweb] Starting scrape, pages %d to %d", s.cfg.StartPage, s.cfg.EndPage-1)

	for page := s.cfg.StartPage; page < s.cfg.EndPage; page++ {
		if err := ctx.Err(); err != nil {
			return ds, err
		}

		url := s.cfg.PageURL(page)
		if s.robots != nil && !s.robots.Allowed(ctx, url) {
			s.logger.Warn("[imovelweb] robots.txt disallows page %d, skipping: %s", page, url)
			continue
		}

		found, err := s.scrapePage(ctx, page, url, ds)
		if err != nil {
			return ds, err
		}
		s.metrics.PagesScraped.Inc()

		if found == 0 && s.cfg.StopOnEmptyPage {
			s.logger.Warn("[imovelweb] Page %d returned 0 listings, stopping", page)
			break
		}
	}

	s.logger.Info("[imovelweb] Scrape complete, %d rows collected", ds.Len())
	return ds, nil
}

// scrapePage runs one page through its states and returns how many cards it
// held.
func (s *Scraper) scrapePage(ctx context.Context, page int, url string, ds *models.Dataset) (found int, err error) {
	state := statePageLoading
	enter := func(next pageState) {
		s.logger.Debug("[imovelweb] page %d: %s -> %s", page, state, next)
		state = next
	}

	agent := s.agents.Pick()
	s.logger.Info("[imovelweb] Scraping page %d: %s", page, url)
	s.logger.Debug("[imovelweb] page %d user agent: %s", page, agent)

	session, err := s.browser.Open(ctx, agent)
	if err != nil {
		return 0, fmt.Errorf("imovelweb: page %d: %w", page, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warn("[imovelweb] Closing browser for page %d: %v", page, cerr)
		}
	}()

	if err := session.Navigate(ctx, url); err != nil {
		return 0, fmt.Errorf("imovelweb: page %d: %w", page, err)
	}

	enter(stateCookieConsent)
	if err := session.AcceptCookies(ctx); err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		s.metrics.CookieFailures.Inc()
		s.logger.Warn("[imovelweb] Could not accept cookies on page %d: %v", page, err)
	} else if err := s.sleep(ctx, s.cfg.CookieSettle); err != nil {
		return 0, err
	}

	enter(stateCaptchaCheck)
	if err := s.captcha.Wait(ctx, session, page); err != nil {
		return 0, err
	}

	enter(stateScraping)
	html, err := session.HTML(ctx)
	if err != nil {
		return 0, fmt.Errorf("imovelweb: page %d: %w", page, err)
	}
	rows, err := s.extractor.ExtractPage(html)
	if err != nil {
		return 0, fmt.Errorf("imovelweb: page %d: %w", page, err)
	}
	s.metrics.CardsFound.Add(float64(len(rows)))

	ds.Append(rows...)
	if len(rows) > 0 {
		if err := s.sink.Append(rows); err != nil {
			return len(rows), fmt.Errorf("imovelweb: page %d: %w", page, err)
		}
		s.metrics.RowsAppended.Add(float64(len(rows)))
	}
	s.logger.Info("[imovelweb] Page %d done, %d listings (%d total)", page, len(rows), ds.Len())

	enter(stateCooldown)
	delay := s.cooldown.Next()
	s.logger.Debug("[imovelweb] page %d cooldown %v", page, delay)
	if err := s.sleep(ctx, delay); err != nil {
		return len(rows), err
	}

	enter(stateDone)
	return len(rows), nil
}
