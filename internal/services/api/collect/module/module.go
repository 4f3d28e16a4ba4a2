// Package module wires the ingestion trigger surface
package module

import (
	"blockparty/internal/modkit"
	phttp "blockparty/internal/platform/net/http"
	collecthttp "blockparty/internal/services/api/collect/http"
	ingestdom "blockparty/internal/services/ingest/domain"
)

// Module exposes the on-demand collection endpoint
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	runner ingestdom.RunnerPort
}

// New constructs the collect module around an ingestion runner
func New(deps modkit.Deps, runner ingestdom.RunnerPort, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("collect"),
		modkit.WithPrefix("/external-events"),
	}, opts...)...)

	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		runner: runner,
	}
}

// MountRoutes mounts the collection trigger under the module prefix
func (m *Module) MountRoutes(r phttp.Router) {
	r.Route(m.prefix, func(rr phttp.Router) {
		collecthttp.Register(rr, m.runner)
	})
}

// Ports returns nothing; the module only exposes HTTP
func (m *Module) Ports() any { return nil }

// Name returns the module name
func (m *Module) Name() string { return m.name }
