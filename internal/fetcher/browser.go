package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	navigationTimeout = 30 * time.Second

	// Settle delays after navigation. There is no verified signal that a
	// page has finished populating; the misaka app fills in stock data via
	// client-side script well after load, so it gets the longer wait.
	settleSlow = 5 * time.Second
	settleFast = 2 * time.Second
)

// BrowserFetcher renders pages in headless Chrome before reading the markup.
// One browser process is shared; every Fetch opens its own tab and closes it
// whether or not the navigation succeeded.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewBrowser() *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserFetcher{allocCtx: allocCtx, allocCancel: cancel}
}

// Close shuts the shared browser down.
func (f *BrowserFetcher) Close() {
	f.allocCancel()
}

func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settle := settleDelay(rawURL)

	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, navigationTimeout+settle)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", rawURL, err)
	}
	return html, nil
}

func settleDelay(rawURL string) time.Duration {
	u, err := url.Parse(rawURL)
	if err == nil && strings.Contains(u.Hostname(), "misaka") {
		return settleSlow
	}
	return settleFast
}
