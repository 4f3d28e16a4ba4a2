// Package api provides the HTTP API for the application
package api

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockparty/internal/platform/config"
	"blockparty/internal/platform/logger"
	phttp "blockparty/internal/platform/net/http"
	"blockparty/internal/platform/store"

	"blockparty/internal/modkit"
	"blockparty/internal/modkit/httpkit"
	"blockparty/internal/modkit/module"

	collectmod "blockparty/internal/services/api/collect/module"
	apievents "blockparty/internal/services/api/events/module"
	metamod "blockparty/internal/services/api/meta/module"

	evhttp "blockparty/internal/services/api/events/http"

	// Worker-side modules that own the domain ports
	eventsmod "blockparty/internal/services/events/module"
	ingestmod "blockparty/internal/services/ingest/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Construct the events service module first and pull out its ports
	events := eventsmod.New(deps)
	evPorts := module.MustPortsOf[eventsmod.Ports](events)

	// The ingest module writes through the events gateway
	ingest := ingestmod.New(deps, ingestmod.Gateway{
		Writer:   evPorts.Writer,
		External: evPorts.External,
	})
	runner := module.MustPortsOf[ingestmod.Ports](ingest).Runner

	mods := []module.Module{
		metamod.New(deps, opt.Store.PG),
		events, // include the worker module so its ports are registered
		ingest,
		apievents.New(deps, evhttp.Ports{
			Writer: evPorts.Writer,
			Query:  evPorts.Query,
			Mutate: evPorts.Mutate,
			RSVP:   evPorts.RSVP,
		}),
		collectmod.New(deps, runner),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})

	// prometheus scrape endpoint, outside the versioned tree
	r.Handle("/metrics", promhttp.Handler())
}
