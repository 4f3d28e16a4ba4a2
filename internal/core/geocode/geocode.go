package geocode

import (
	"context"
	"strings"
	"time"

	"blockparty/internal/core/textfold"
	"blockparty/internal/platform/logger"
)

// Point is a resolved coordinate pair
type Point struct {
	Lat float64
	Lng float64
}

// Lookuper is the provider seam, satisfied by *Client
type Lookuper interface {
	Lookup(ctx context.Context, address string) (lat, lng float64, ok bool, err error)
}

// ResolverOptions tunes the fallback rewrites and cache
type ResolverOptions struct {
	// CitySuffix is appended as a last resort for venue-only strings,
	// ex "Philadelphia, PA"
	CitySuffix string
	// CityKeywords suppress the city suffix when already present
	CityKeywords []string

	CacheSize int
	CacheTTL  time.Duration
}

// Resolver turns venue strings into coordinates using progressively looser
// rewrites of the address. It never returns an error: an unresolvable address
// yields nil coordinates and the event is kept without a pin
type Resolver struct {
	client Lookuper
	opts   ResolverOptions
	cache  *cache
	log    logger.Logger
}

// NewResolver builds a Resolver around a provider client
func NewResolver(client Lookuper, opts ResolverOptions) *Resolver {
	if opts.CitySuffix == "" {
		opts.CitySuffix = "Philadelphia, PA"
	}
	if len(opts.CityKeywords) == 0 {
		opts.CityKeywords = []string{"philadelphia", "philly"}
	}
	return &Resolver{
		client: client,
		opts:   opts,
		cache:  newCache(opts.CacheSize, opts.CacheTTL),
		log:    *logger.Named("geocode"),
	}
}

// Resolve maps address to coordinates, trying progressively looser rewrites:
//  1. the address as given
//  2. everything after the first comma (drops a leading venue name)
//  3. the address with ", USA" appended
//  4. the comma-stripped form with ", USA" appended
//  5. the address with the city suffix appended
//
// Both coordinates are nil when every attempt misses
func (g *Resolver) Resolve(ctx context.Context, address string) (lat, lng *float64) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return nil, nil
	}

	key := textfold.Fold(addr)
	if p, hit, ok := g.cache.get(key); ok {
		if !hit {
			return nil, nil
		}
		return &p.Lat, &p.Lng
	}

	if p, ok := g.lookup(ctx, addr); ok {
		g.cache.put(key, p, true)
		return &p.Lat, &p.Lng
	}

	afterComma := afterFirstComma(addr)
	if afterComma != addr {
		if p, ok := g.lookup(ctx, afterComma); ok {
			g.cache.put(key, p, true)
			return &p.Lat, &p.Lng
		}
	}

	if !containsAny(addr, "usa", "united states") {
		if p, ok := g.lookup(ctx, addr+", USA"); ok {
			g.cache.put(key, p, true)
			return &p.Lat, &p.Lng
		}
	}

	if afterComma != addr && !containsAny(afterComma, "usa", "united states") {
		if p, ok := g.lookup(ctx, afterComma+", USA"); ok {
			g.cache.put(key, p, true)
			return &p.Lat, &p.Lng
		}
	}

	if !containsAny(addr, g.opts.CityKeywords...) {
		if p, ok := g.lookup(ctx, addr+", "+g.opts.CitySuffix); ok {
			g.cache.put(key, p, true)
			return &p.Lat, &p.Lng
		}
	}

	g.log.Debug().Str("address", addr).Msg("geocode exhausted all rewrites")
	g.cache.put(key, Point{}, false)
	return nil, nil
}

// lookup swallows provider errors so one flaky call never sinks an ingest run
func (g *Resolver) lookup(ctx context.Context, addr string) (Point, bool) {
	lat, lng, ok, err := g.client.Lookup(ctx, addr)
	if err != nil {
		g.log.Warn().Err(err).Str("address", addr).Msg("geocode lookup failed")
		return Point{}, false
	}
	if !ok {
		return Point{}, false
	}
	return Point{Lat: lat, Lng: lng}, true
}

// afterFirstComma returns the remainder after the first comma when that leaves
// a non-empty tail, otherwise the input unchanged
func afterFirstComma(s string) string {
	i := strings.Index(s, ",")
	if i > 0 && i < len(s)-1 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

func containsAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
