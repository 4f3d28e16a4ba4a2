// Package module wires the events API into the router using modkit
package module

import (
	stdhttp "net/http"

	modkit "blockparty/internal/modkit"
	"blockparty/internal/modkit/httpkit"
	pnet "blockparty/internal/platform/net"
	evhttp "blockparty/internal/services/api/events/http"
)

// Module implements the events API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	ports  evhttp.Ports
}

// New constructs the events API module around the events service ports
func New(deps modkit.Deps, ports evhttp.Ports, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("events"), modkit.WithPrefix("/events")}, opts...)...)
	return &Module{deps: deps, name: b.Name, prefix: b.Prefix, ports: ports}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		rr.Use(identity())
		evhttp.Register(rr, m.ports)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// identity lifts the caller id header into the request context.
// Session-backed auth lives in front of this service; the header is the
// trusted contract with that layer
func identity() func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if user := r.Header.Get("X-User-ID"); user != "" {
				r = r.WithContext(pnet.WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
