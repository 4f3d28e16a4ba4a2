// Package module implements the events service module
package module

import (
	"blockparty/internal/modkit"
	"blockparty/internal/modkit/httpkit"
	"blockparty/internal/services/events/domain"
	"blockparty/internal/services/events/repo"
	"blockparty/internal/services/events/service"
)

// Ports exposed by the events module
type Ports struct {
	Writer   domain.WriterPort
	External domain.ExternalPort
	Query    domain.QueryPort
	Mutate   domain.MutatePort
	RSVP     domain.RSVPPort
}

// Module implements the events service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new events module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer:   svc,
		External: svc,
		Query:    svc,
		Mutate:   svc,
		RSVP:     svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "events" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module; routes live on the api module
func (m *Module) MountRoutes(r httpkit.Router) {}
