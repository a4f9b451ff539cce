// Package scraper drives a headless browser against Credly badge and
// profile pages. Extraction is by named fields with validation: a page that
// does not yield a certification name fails loudly instead of producing a
// wrong record.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"credpoints/internal/badge"
	"credpoints/internal/config"
	"credpoints/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// Scrape errors. ErrScrapeUnavailable wraps every failure mode so callers
// can map them to the distinct "data unavailable" result instead of
// "expired".
var (
	ErrScrapeUnavailable = errors.New("badge data unavailable")
	ErrBadgeNotFound     = errors.New("no badge fields found on page")
)

// Scraper owns the browser instance. It is safe for reuse across requests;
// each scrape runs in its own incognito page with guaranteed teardown.
type Scraper struct {
	cfg        config.BrowserConfig
	mu         sync.RWMutex
	browser    *rod.Browser
	controlURL string
}

// New creates a scraper with the given browser configuration.
func New(cfg config.BrowserConfig) *Scraper {
	return &Scraper{cfg: cfg}
}

// Start connects to an existing Chrome or launches a new one.
func (s *Scraper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// If we already have a browser, verify it's still alive
	if s.browser != nil {
		if _, err := s.browser.Version(); err == nil {
			return nil
		}
		logging.Browser("stale browser connection detected, reconnecting")
		_ = s.browser.Close()
		s.browser = nil
		s.controlURL = ""
	}

	controlURL := s.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(s.cfg.Headless)
		if s.cfg.Bin != "" {
			launch = launch.Bin(s.cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return fmt.Errorf("%w: launch chrome: %v", ErrScrapeUnavailable, err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: connect to chrome: %v", ErrScrapeUnavailable, err)
	}

	s.browser = browser
	s.controlURL = controlURL
	logging.Browser("browser connected: %s", controlURL)
	return nil
}

func (s *Scraper) ensureStarted(ctx context.Context) error {
	s.mu.RLock()
	if s.browser != nil {
		s.mu.RUnlock()
		return nil
	}
	s.mu.RUnlock()
	return s.Start(ctx)
}

// ControlURL returns the WebSocket debugger URL.
func (s *Scraper) ControlURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.controlURL
}

// IsConnected returns whether the browser is connected.
func (s *Scraper) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.browser != nil
}

// Shutdown closes the browser.
func (s *Scraper) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.controlURL = ""
	logging.Browser("browser shutdown complete")
	return err
}

// ScrapeBadge loads a single badge page and extracts the certification
// record. The page is always closed before returning, on every exit path.
func (s *Scraper) ScrapeBadge(ctx context.Context, url string) (*badge.Record, error) {
	page, err := s.openPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	requestID := uuid.NewString()
	logging.Scraper("[%s] scraping badge page: %s", requestID, url)

	if err := s.settle(ctx, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeUnavailable, err)
	}

	record, err := s.extractBadgeFields(ctx, page)
	if err != nil {
		// Evaluator miss: fall back to parsing the rendered HTML.
		html, htmlErr := page.HTML()
		if htmlErr != nil {
			return nil, fmt.Errorf("%w: extract fields: %v", ErrScrapeUnavailable, err)
		}
		record, err = ExtractBadgeFromHTML(html)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScrapeUnavailable, err)
		}
		logging.Scraper("[%s] evaluator miss, recovered via HTML fallback", requestID)
	}

	record.SourceURL = url
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeUnavailable, err)
	}

	logging.Scraper("[%s] extracted badge: name=%q issuer=%q expiry=%q",
		requestID, record.Name, record.Issuer, record.ExpiryText)
	return record, nil
}

// ScrapeProfile loads a profile page and extracts the holder name plus
// every badge card found.
func (s *Scraper) ScrapeProfile(ctx context.Context, url string) (*badge.Profile, error) {
	page, err := s.openPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	requestID := uuid.NewString()
	logging.Scraper("[%s] scraping profile page: %s", requestID, url)

	if err := s.settle(ctx, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeUnavailable, err)
	}

	profile, err := s.extractProfileFields(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScrapeUnavailable, err)
	}
	profile.SourceURL = url

	logging.Scraper("[%s] extracted profile: holder=%q badges=%d",
		requestID, profile.HolderName, len(profile.Badges))
	return profile, nil
}

// openPage creates a fresh incognito page and navigates it.
func (s *Scraper) openPage(ctx context.Context, url string) (*rod.Page, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	browser := s.browser
	s.mu.RUnlock()
	if browser == nil {
		return nil, fmt.Errorf("%w: browser not connected", ErrScrapeUnavailable)
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("%w: incognito context: %v", ErrScrapeUnavailable, err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: create page: %v", ErrScrapeUnavailable, err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             s.cfg.GetViewportWidth(),
		Height:            s.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.BrowserDebug("failed to set viewport: %v", err)
	}

	if err := page.Context(ctx).Timeout(s.cfg.NavigationTimeout()).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: navigate %s: %v", ErrScrapeUnavailable, url, err)
	}

	return page, nil
}

// settle waits for client-side rendering, then scrolls to trigger lazy
// loading and waits again.
func (s *Scraper) settle(ctx context.Context, page *rod.Page) error {
	if err := page.Context(ctx).Timeout(s.cfg.NavigationTimeout()).WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	if err := sleepCtx(ctx, s.cfg.RenderSettle()); err != nil {
		return err
	}

	_, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:      `() => window.scrollTo(0, document.body.scrollHeight)`,
		ByValue: true,
	})
	if err != nil {
		logging.BrowserDebug("scroll failed: %v", err)
	}

	return sleepCtx(ctx, s.cfg.ScrollSettle())
}

// badgeExtractScript pulls named fields from a rendered badge page. Each
// field comes from an explicit selector or a labeled row, never from a
// positional text split.
const badgeExtractScript = `
() => {
	const text = (el) => el ? (el.textContent || '').trim() : '';
	const meta = (name) => {
		const el = document.querySelector('meta[property="' + name + '"], meta[name="' + name + '"]');
		return el ? (el.getAttribute('content') || '').trim() : '';
	};
	const byLabel = (label) => {
		const nodes = Array.from(document.querySelectorAll('div, span, p, li, time'));
		for (const n of nodes) {
			const t = (n.textContent || '').trim();
			if (t.toLowerCase().startsWith(label) && t.length > 0 && t.length < 80) return t;
		}
		return '';
	};

	const name = text(document.querySelector('[data-testid="badge-name"], .badge-banner-title, h1'))
		|| meta('og:title');
	const issuer = text(document.querySelector('[data-testid="issuer-name"], .badge-banner-issuer a, .issued-by a'));
	const holder = text(document.querySelector('[data-testid="earner-name"], .badge-banner-earner a'));

	return {
		name: name,
		issuer: issuer,
		holder: holder,
		issued: byLabel('issued'),
		expires: byLabel('expires') || byLabel('expired') || byLabel('no expiration'),
	};
}
`

type badgeFields struct {
	Name    string `json:"name"`
	Issuer  string `json:"issuer"`
	Holder  string `json:"holder"`
	Issued  string `json:"issued"`
	Expires string `json:"expires"`
}

func (s *Scraper) extractBadgeFields(ctx context.Context, page *rod.Page) (*badge.Record, error) {
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           badgeExtractScript,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil || res == nil {
		return nil, fmt.Errorf("badge field evaluation: %w", err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal evaluation result: %w", err)
	}

	var fields badgeFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse evaluation result: %w", err)
	}

	if strings.TrimSpace(fields.Name) == "" {
		return nil, ErrBadgeNotFound
	}

	return &badge.Record{
		Name:       strings.TrimSpace(fields.Name),
		Issuer:     strings.TrimSpace(fields.Issuer),
		HolderName: strings.TrimSpace(fields.Holder),
		IssuedText: strings.TrimSpace(fields.Issued),
		ExpiryText: strings.TrimSpace(fields.Expires),
	}, nil
}

// profileExtractScript pulls the holder heading plus named fields from each
// badge card on a profile page.
const profileExtractScript = `
() => {
	const text = (el) => el ? (el.textContent || '').trim() : '';
	const holder = text(document.querySelector('[data-testid="profile-name"], h1'));

	const cards = Array.from(document.querySelectorAll('a[href*="/badges/"]'));
	const seen = new Set();
	const badges = [];
	for (const card of cards) {
		const name = text(card.querySelector('[data-testid="badge-name"], h2, h3, h4'))
			|| (card.getAttribute('title') || '').trim();
		if (!name || seen.has(name)) continue;
		seen.add(name);

		let issued = '';
		let expires = '';
		for (const n of Array.from(card.querySelectorAll('div, span, time'))) {
			const t = text(n).toLowerCase();
			if (!issued && (t.startsWith('issued') || t.startsWith('earned'))) issued = text(n);
			if (!expires && (t.startsWith('expires') || t.startsWith('expired') || t.startsWith('no expiration'))) expires = text(n);
		}

		badges.push({ name: name, issued: issued, expires: expires, href: card.getAttribute('href') || '' });
	}
	return { holder: holder, badges: badges };
}
`

type profileFields struct {
	Holder string `json:"holder"`
	Badges []struct {
		Name    string `json:"name"`
		Issued  string `json:"issued"`
		Expires string `json:"expires"`
		Href    string `json:"href"`
	} `json:"badges"`
}

func (s *Scraper) extractProfileFields(ctx context.Context, page *rod.Page) (*badge.Profile, error) {
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           profileExtractScript,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil || res == nil {
		return nil, fmt.Errorf("profile field evaluation: %w", err)
	}

	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal evaluation result: %w", err)
	}

	var fields profileFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse evaluation result: %w", err)
	}

	profile := &badge.Profile{HolderName: fields.Holder}
	for _, b := range fields.Badges {
		profile.Badges = append(profile.Badges, badge.Record{
			Name:       b.Name,
			HolderName: fields.Holder,
			IssuedText: b.Issued,
			ExpiryText: b.Expires,
			SourceURL:  b.Href,
		})
	}

	if len(profile.Badges) == 0 && profile.HolderName == "" {
		return nil, ErrBadgeNotFound
	}
	return profile, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
