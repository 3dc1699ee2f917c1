// Package capture fetches the portal's schedule page as rendered HTML.
// PeopleSoft pages assemble their content with JavaScript, so a plain
// HTTP GET does not see the schedule table; a real browser does.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const DefaultTimeoutSec = 45

// Options defines parameters for one page capture.
type Options struct {
	// URL of the schedule page.
	URL string

	// RemoteURL, when set, is the DevTools endpoint of an already
	// running Chromium that carries the student's logged-in session
	// (e.g. "ws://127.0.0.1:9222"). When empty a fresh headless
	// instance is launched.
	RemoteURL string

	// Timeout bounds the entire capture. Zero means DefaultTimeoutSec.
	Timeout time.Duration
}

// SchedulePage navigates to opts.URL, waits until the transaction title
// element is present (the last piece of the page PeopleSoft renders),
// and returns the document's outer HTML.
func SchedulePage(parentCtx context.Context, opts Options) (string, error) {
	if opts.URL == "" {
		return "", fmt.Errorf("capture: URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeoutSec * time.Second
	}

	ctx := parentCtx
	var cancels []context.CancelFunc
	defer func() {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
	}()

	if opts.RemoteURL != "" {
		var cancel context.CancelFunc
		ctx, cancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
		cancels = append(cancels, cancel)
	}

	ctx, cancel := chromedp.NewContext(ctx)
	cancels = append(cancels, cancel)

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	cancels = append(cancels, timeoutCancel)

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady(`.PATRANSACTIONTITLE`, chromedp.ByQuery),
		// Let PeopleSoft finish its late field substitutions.
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	return html, nil
}
