// Package eventbrite scrapes the Eventbrite search results, which only
// materialize after client-side rendering, so pages go through a headless
// Chromium first and a goquery pass second
package eventbrite

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	perr "blockparty/internal/platform/errors"
)

// resultsSelector is the search results list container. Eventbrite ships
// hashed class names; update alongside parse.go when they rotate
const resultsSelector = `[class*="SearchResultPanelContentEventCardList-module__eventList"]`

const renderTimeoutDefault = 60 * time.Second

// Renderer opens a browsing session scoped to one fetch.
// The chromedp implementation is swapped out for a static one in tests
type Renderer interface {
	Open(ctx context.Context) (Session, error)
}

// Session renders URLs in a single shared browser.
// Close releases the browser and must run on every exit path
type Session interface {
	Render(ctx context.Context, url string) (html string, err error)
	Close()
}

// chromiumRenderer drives a headless Chromium via chromedp.
// One browser is launched per session and every page renders inside it
type chromiumRenderer struct {
	timeout time.Duration
}

// NewChromiumRenderer builds the production Renderer
func NewChromiumRenderer(timeout time.Duration) Renderer {
	if timeout <= 0 {
		timeout = renderTimeoutDefault
	}
	return &chromiumRenderer{timeout: timeout}
}

// Open implements Renderer
func (c *chromiumRenderer) Open(parentCtx context.Context) (Session, error) {
	ctx, cancel := chromedp.NewContext(parentCtx)
	return &chromiumSession{ctx: ctx, cancel: cancel, timeout: c.timeout}, nil
}

type chromiumSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// Render implements Session with a per-page deadline on the shared browser
func (s *chromiumSession) Render(_ context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		// wait for the results list to hydrate before reading the DOM
		chromedp.WaitVisible(resultsSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "eventbrite render failed")
	}
	return html, nil
}

// Close implements Session
func (s *chromiumSession) Close() { s.cancel() }
