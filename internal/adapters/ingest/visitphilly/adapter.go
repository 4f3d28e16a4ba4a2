package visitphilly

import (
	"context"
	"io"
	"net/http"
	"time"

	"blockparty/internal/core/dateparse"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
	ingestdom "blockparty/internal/services/ingest/domain"
)

// Owner tags events sourced from this adapter
const Owner = "Visit Philadelphia"

const pageURLDefault = "https://www.visitphilly.com/uwishunu/things-to-do-in-philadelphia-this-week-weekend/"

// Locator resolves a venue string to nullable coordinates
type Locator interface {
	Resolve(ctx context.Context, address string) (lat, lng *float64)
}

// Options configures the Adapter
type Options struct {
	PageURL string
	Timeout time.Duration
}

// Adapter scrapes the weekly roundup page into candidates
type Adapter struct {
	http *http.Client
	opts Options
	geo  Locator
	log  logger.Logger
	now  func() time.Time
}

// New builds the adapter. geo may not be nil
func New(geo Locator, opts Options) *Adapter {
	if opts.PageURL == "" {
		opts.PageURL = pageURLDefault
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Adapter{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
		geo:  geo,
		log:  *logger.Named("visitphilly"),
		now:  time.Now,
	}
}

// Name implements ingest domain Fetcher
func (a *Adapter) Name() string { return "visitphilly" }

// Fetch implements ingest domain Fetcher
func (a *Adapter) Fetch(ctx context.Context) ([]ingestdom.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.opts.PageURL, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "visitphilly new request failed")
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "visitphilly fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "visitphilly unexpected status %d", resp.StatusCode)
	}

	sections, err := parseSections(resp.Body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "visitphilly parse failed")
	}

	now := a.now()
	var out []ingestdom.Candidate
	for _, sec := range sections {
		// locations pair positionally with items; a mismatch means the
		// section layout changed under us, so skip it rather than guess
		if len(sec.items) != len(sec.locations) {
			a.log.Debug().
				Int("items", len(sec.items)).
				Int("locations", len(sec.locations)).
				Msg("visitphilly section misaligned, skipping")
			continue
		}

		when := dateparse.Parse(sec.date, now)
		if when == nil {
			continue
		}

		for i, it := range sec.items {
			loc := sec.locations[i]
			lat, lng := a.geo.Resolve(ctx, loc)
			out = append(out, ingestdom.Candidate{
				Title:               it.title,
				Description:         it.description,
				LocationDescription: loc,
				Lat:                 lat,
				Long:                lng,
				Time:                when,
				Owner:               Owner,
			})
		}
	}
	return out, nil
}
