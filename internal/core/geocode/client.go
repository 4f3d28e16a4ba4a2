// Package geocode resolves free-form venue strings to coordinates via the
// Google Maps geocoding API, with fallback rewrites tuned for local listings
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
)

const (
	baseURLDefault   = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultTimeout   = 10 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures the Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Retry config for transient responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal geocoding API client with retry on transient failures
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("geocode"),
		sleep: time.Sleep,
	}
}

type apiResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup issues one geocoding request for address.
// ok is false when the provider found no match; err covers transport failures
func (c *Client) Lookup(ctx context.Context, address string) (lat, lng float64, ok bool, err error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.opts.APIKey)
	u := c.opts.BaseURL + "?" + q.Encode()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return 0, 0, false, ctx.Err()
		default:
		}

		req, rerr := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if rerr != nil {
			return 0, 0, false, perr.Wrapf(rerr, perr.ErrorCodeUnknown, "geocode new request failed")
		}

		start := time.Now()
		resp, derr := c.http.Do(req)
		latency := time.Since(start)

		if derr != nil {
			if attempts >= c.opts.MaxRetries {
				return 0, 0, false, perr.Wrapf(derr, perr.ErrorCodeUnavailable, "geocode do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("geocode transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("address", address).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", latency).
			Msg("geocode http response")

		switch resp.StatusCode {
		case http.StatusOK:
			var body apiResponse
			if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
				_ = resp.Body.Close()
				return 0, 0, false, perr.Wrapf(err, perr.ErrorCodeUnknown, "geocode decode failed")
			}
			_ = resp.Body.Close()
			if body.Status == "OK" && len(body.Results) > 0 {
				loc := body.Results[0].Geometry.Location
				return loc.Lat, loc.Lng, true, nil
			}
			// ZERO_RESULTS and friends are a miss, not an error
			return 0, 0, false, nil
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			if attempts >= c.opts.MaxRetries {
				return 0, 0, false, perr.Newf(perr.ErrorCodeUnavailable, "geocode transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("geocode transient error retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return 0, 0, false, perr.Newf(perr.ErrorCodeUnknown, "geocode unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	if maxMs := int64(10 * time.Second / time.Millisecond); ms > maxMs {
		ms = maxMs
	}
	return time.Duration(ms) * time.Millisecond
}
