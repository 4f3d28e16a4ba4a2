// Package seatgeek pulls upcoming local events from the SeatGeek discovery API
package seatgeek

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.seatgeek.com/2"
	defaultTimeout = 15 * time.Second

	// city hall, roughly
	defaultGeoIP = "39.9526,-75.1652"
	defaultRange = "25mi"

	perPage  = 50
	maxPages = 40
)

// Options configures the Client
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration

	// GeoIP is a "lat,lon" anchor for the radius search
	GeoIP string
	Range string

	// Window is how far ahead of now to search
	Window time.Duration
}

// Client is a minimal SeatGeek API client
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.GeoIP == "" {
		o.GeoIP = defaultGeoIP
	}
	if o.Range == "" {
		o.Range = defaultRange
	}
	if o.Window <= 0 {
		o.Window = 7 * 24 * time.Hour
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("seatgeek"),
		now:  time.Now,
	}
}

// EventsNextWindow walks the paginated events endpoint for the configured
// radius and time window until a page comes back empty
func (c *Client) EventsNextWindow(ctx context.Context) ([]apiEvent, error) {
	now := c.now().UTC()
	gte := now.Format(time.RFC3339)
	lte := now.Add(c.opts.Window).Format(time.RFC3339)

	var all []apiEvent
	for page := 1; page <= maxPages; page++ {
		evs, err := c.fetchPage(ctx, page, gte, lte)
		if err != nil {
			return nil, err
		}
		if len(evs) == 0 {
			break
		}
		all = append(all, evs...)
		if len(evs) < perPage {
			break
		}
	}
	c.log.Debug().Int("events", len(all)).Msg("seatgeek window fetched")
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int, gte, lte string) ([]apiEvent, error) {
	q := url.Values{}
	q.Set("client_id", c.opts.ClientID)
	q.Set("client_secret", c.opts.ClientSecret)
	q.Set("geoip", c.opts.GeoIP)
	q.Set("range", c.opts.Range)
	q.Set("datetime_utc.gte", gte)
	q.Set("datetime_utc.lte", lte)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	u := c.opts.BaseURL + "/events?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "seatgeek new request failed")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "seatgeek do failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, perr.Newf(perr.ErrorCodeUnavailable,
			"seatgeek unexpected status %d body %s", resp.StatusCode, string(body))
	}

	var out eventsPage
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&out); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "seatgeek decode failed")
	}
	return out.Events, nil
}
