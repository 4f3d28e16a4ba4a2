package seatgeek

import (
	"context"
	"strings"
	"time"

	ingestdom "blockparty/internal/services/ingest/domain"
)

// Owner tags events sourced from this adapter
const Owner = "SeatGeek"

// datetime_utc comes back without a zone designator
const apiTimeLayout = "2006-01-02T15:04:05"

// Adapter maps SeatGeek API events to candidates.
// Coordinates come straight from the venue so no geocoder is involved
type Adapter struct {
	client *Client
}

// New builds the adapter around a Client
func New(client *Client) *Adapter { return &Adapter{client: client} }

// Name implements ingest domain Fetcher
func (a *Adapter) Name() string { return "seatgeek" }

// Fetch implements ingest domain Fetcher
func (a *Adapter) Fetch(ctx context.Context) ([]ingestdom.Candidate, error) {
	evs, err := a.client.EventsNextWindow(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ingestdom.Candidate, 0, len(evs))
	for _, ev := range evs {
		out = append(out, mapEvent(ev))
	}
	return out, nil
}

func mapEvent(ev apiEvent) ingestdom.Candidate {
	title := ev.ShortTitle
	if title == "" {
		title = ev.Title
	}

	c := ingestdom.Candidate{
		Title:               title,
		Description:         describe(ev),
		LocationDescription: venueLine(ev.Venue),
		Owner:               Owner,
	}

	if ev.Venue.Location.Lat != 0 || ev.Venue.Location.Lon != 0 {
		lat, lon := ev.Venue.Location.Lat, ev.Venue.Location.Lon
		c.Lat, c.Long = &lat, &lon
	}

	if t, err := time.Parse(apiTimeLayout, ev.DatetimeUTC); err == nil {
		utc := t.UTC()
		c.Time = &utc
	}

	if ev.URL != "" {
		u := ev.URL
		c.ExternalLink = &u
	}

	if img := primaryImage(ev.Performers); img != "" {
		c.Image = &img
	}

	return c
}

// describe synthesizes a short blurb since the API has no description field
func describe(ev apiEvent) string {
	parts := []string{}
	if ev.Title != "" {
		parts = append(parts, ev.Title)
	}
	if v := venueLine(ev.Venue); v != "" {
		parts = append(parts, "at "+v)
	}
	if ev.URL != "" {
		parts = append(parts, ev.URL)
	}
	return strings.Join(parts, " ")
}

func venueLine(v apiVenue) string {
	parts := []string{}
	for _, s := range []string{v.Name, v.Address, v.ExtendedAddress} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func primaryImage(ps []apiPerform) string {
	for _, p := range ps {
		if p.Primary && p.Image != "" {
			return p.Image
		}
	}
	for _, p := range ps {
		if p.Image != "" {
			return p.Image
		}
	}
	return ""
}
