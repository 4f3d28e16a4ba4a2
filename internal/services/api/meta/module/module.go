// Package module wires meta endpoints into the API using modkit
package module

import (
	"time"

	modkit "blockparty/internal/modkit"
	"blockparty/internal/modkit/httpkit"
	metahttp "blockparty/internal/services/api/meta/http"
)

// Module implements the meta module
type Module struct {
	deps    modkit.Deps
	name    string
	prefix  string
	started time.Time
	pinger  any
}

// New constructs the meta module. pinger is the store adapter used by the
// readiness probe, typically *store.Store PG
func New(deps modkit.Deps, pinger any, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	return &Module{
		deps:    deps,
		name:    b.Name,
		prefix:  b.Prefix,
		started: time.Now(),
		pinger:  pinger,
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: "blockparty-api",
			StartedAt:   m.started,
			PG:          m.pinger,
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return nil }
