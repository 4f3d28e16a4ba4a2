package eventbrite

import (
	"context"
	"fmt"
	"time"

	"blockparty/internal/core/dateparse"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
	ingestdom "blockparty/internal/services/ingest/domain"
)

// Owner tags events sourced from this adapter
const Owner = "Eventbrite"

const baseURLDefault = "https://www.eventbrite.com/d/pa--philadelphia/events--this-weekend/"

// Locator resolves a venue string to nullable coordinates
type Locator interface {
	Resolve(ctx context.Context, address string) (lat, lng *float64)
}

// Options configures the Adapter
type Options struct {
	BaseURL string
	// Pages is how many result pages to walk, default 5
	Pages int
}

// Adapter renders and scrapes search result pages into candidates
type Adapter struct {
	render Renderer
	geo    Locator
	opts   Options
	log    logger.Logger
	now    func() time.Time
}

// New builds the adapter. render and geo may not be nil
func New(render Renderer, geo Locator, opts Options) *Adapter {
	if opts.BaseURL == "" {
		opts.BaseURL = baseURLDefault
	}
	if opts.Pages <= 0 {
		opts.Pages = 5
	}
	return &Adapter{
		render: render,
		geo:    geo,
		opts:   opts,
		log:    *logger.Named("eventbrite"),
		now:    time.Now,
	}
}

// Name implements ingest domain Fetcher
func (a *Adapter) Name() string { return "eventbrite" }

// Fetch implements ingest domain Fetcher.
// One browser session spans the whole walk; pages render sequentially in it,
// and a failed page past the first is treated as the end of results rather
// than a source failure
func (a *Adapter) Fetch(ctx context.Context) ([]ingestdom.Candidate, error) {
	sess, err := a.render.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	now := a.now()
	var out []ingestdom.Candidate

	for page := 1; page <= a.opts.Pages; page++ {
		url := fmt.Sprintf("%s?page=%d", a.opts.BaseURL, page)
		html, err := sess.Render(ctx, url)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			a.log.Debug().Int("page", page).Err(err).Msg("eventbrite page render failed, stopping")
			break
		}

		cards, err := parseCards(html)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "eventbrite parse failed")
		}
		if len(cards) == 0 {
			break
		}

		for _, cd := range cards {
			when := dateparse.Parse(cd.date, now)
			if when == nil {
				continue
			}
			lat, lng := a.geo.Resolve(ctx, cd.location)
			c := ingestdom.Candidate{
				Title:               cd.title,
				Description:         cd.link,
				LocationDescription: cd.location,
				Lat:                 lat,
				Long:                lng,
				Time:                when,
				Owner:               Owner,
			}
			if cd.link != "" {
				link := cd.link
				c.ExternalLink = &link
			}
			out = append(out, c)
		}
	}
	return out, nil
}
