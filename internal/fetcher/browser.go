package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/shelfwatch/shelfwatch/internal/config"
	"github.com/shelfwatch/shelfwatch/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// A single tab is reused across pages since fetches are strictly sequential.
type BrowserFetcher struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     *config.Config
	logger  *slog.Logger
}

// NewBrowserFetcher creates a new headless browser fetcher.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:    cfg,
		logger: logger.With("component", "browser_fetcher"),
	}

	launchURL, err := bf.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	page, err := bf.newPage()
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	bf.page = page

	if ua := cfg.Target.UserAgent; ua != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua})
		if err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	bf.logger.Info("browser fetcher ready",
		"headless", cfg.Fetcher.Browser.Headless,
		"stealth", cfg.Fetcher.Browser.Stealth,
	)

	return bf, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (bf *BrowserFetcher) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(bf.cfg.Fetcher.Browser.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	return l.Launch()
}

// newPage opens the tab, with stealth patches when configured.
func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Fetcher.Browser.Stealth {
		return stealth.Page(bf.browser)
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*types.Page, error) {
	start := time.Now()
	timeout := bf.cfg.Fetcher.RequestTimeout

	page := bf.page.Context(ctx)

	if err := page.Timeout(timeout).Navigate(pageURL); err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}

	// Give dynamic content a moment to settle
	if wait := bf.cfg.Fetcher.Browser.WaitLoad; wait > 0 {
		if err := page.Timeout(timeout).WaitStable(wait); err != nil {
			bf.logger.Warn("page stability timeout, continuing", "url", pageURL, "error", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: pageURL, Err: err}
	}
	if len(html) == 0 {
		return nil, &types.FetchError{URL: pageURL, Err: types.ErrEmptyBody}
	}

	// Final URL after any redirects
	finalURL := pageURL
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	result := types.NewBrowserPage(finalURL, []byte(html), duration)

	bf.logger.Debug("browser fetch complete",
		"url", pageURL,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return result, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	if bf.page != nil {
		_ = bf.page.Close()
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
