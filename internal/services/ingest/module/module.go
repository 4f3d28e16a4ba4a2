// Package module implements the ingest service module
package module

import (
	"blockparty/internal/adapters/ingest/eventbrite"
	"blockparty/internal/adapters/ingest/seatgeek"
	"blockparty/internal/adapters/ingest/visitphilly"
	"blockparty/internal/core/geocode"
	"blockparty/internal/modkit"
	"blockparty/internal/modkit/httpkit"
	evdom "blockparty/internal/services/events/domain"
	"blockparty/internal/services/ingest/domain"
	"blockparty/internal/services/ingest/service"
)

// Ports exposed by the ingest module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingest service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// Gateway bundles the events module ports the orchestrator needs
type Gateway struct {
	Writer   evdom.WriterPort
	External evdom.ExternalPort
}

// New constructs a new ingest module wired to the events gateway
func New(deps modkit.Deps, gw Gateway) *Module {
	opts := FromConfig(deps.Cfg)

	geo := geocode.NewResolver(
		geocode.NewClient(geocode.Options{
			BaseURL: opts.GeocodeBaseURL,
			APIKey:  opts.GeocodeAPIKey,
		}),
		geocode.ResolverOptions{CitySuffix: opts.CitySuffix},
	)

	fetchers := []domain.Fetcher{
		seatgeek.New(seatgeek.NewClient(seatgeek.Options{
			BaseURL:      opts.SeatGeekBaseURL,
			ClientID:     opts.SeatGeekClientID,
			ClientSecret: opts.SeatGeekClientSecret,
			GeoIP:        opts.SeatGeekGeoIP,
			Range:        opts.SeatGeekRange,
		})),
		visitphilly.New(geo, visitphilly.Options{PageURL: opts.VisitPhillyURL}),
		eventbrite.New(
			eventbrite.NewChromiumRenderer(opts.RenderTimeout),
			geo,
			eventbrite.Options{BaseURL: opts.EventbriteBaseURL, Pages: opts.EventbritePages},
		),
	}

	svc := service.New(gw.Writer, gw.External, fetchers, service.Config{
		RunTimeout: opts.RunTimeout,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ingest" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; the collect route lives on the api module
func (m *Module) MountRoutes(r httpkit.Router) {}
