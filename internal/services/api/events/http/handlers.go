// Package http provides http transport for the events API
package http

import (
	stdhttp "net/http"

	"blockparty/internal/modkit/httpkit"
	perr "blockparty/internal/platform/errors"
	pnet "blockparty/internal/platform/net"
	apidom "blockparty/internal/services/api/events/domain"
	evdom "blockparty/internal/services/events/domain"
)

// Ports are the events module ports the transport needs
type Ports struct {
	Writer evdom.WriterPort
	Query  evdom.QueryPort
	Mutate evdom.MutatePort
	RSVP   evdom.RSVPPort
}

// Register mounts the events endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{ports: p}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PostJSON[apidom.CreateEventRequest](r, "/", h.create)
	httpkit.PutJSON[apidom.UpdateEventRequest](r, "/{id}", h.update)
	httpkit.Delete(r, "/{id}", h.remove)

	httpkit.Get(r, "/{id}/attendees", h.attendees)
	httpkit.Post(r, "/{id}/rsvp", h.addRSVP)
	httpkit.Delete(r, "/{id}/rsvp", h.removeRSVP)
}

type handlers struct{ ports Ports }

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	if q := r.URL.Query().Get("q"); q != "" {
		return h.ports.Query.Search(r.Context(), q)
	}
	return h.ports.Query.List(r.Context())
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.ports.Query.Get(r.Context(), httpkit.URLParam(r, "id"))
}

func (h *handlers) create(r *stdhttp.Request, in apidom.CreateEventRequest) (any, error) {
	user, err := requireUser(r)
	if err != nil {
		return nil, err
	}
	ev, err := h.ports.Writer.Insert(r.Context(), evdom.EventWrite{
		Title:               in.Title,
		Description:         in.Description,
		LocationDescription: in.LocationDescription,
		Lat:                 in.Lat,
		Long:                in.Long,
		Time:                in.Time,
		Owner:               user,
		Image:               in.Image,
		ExternalLink:        in.ExternalLink,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(ev), nil
}

func (h *handlers) update(r *stdhttp.Request, in apidom.UpdateEventRequest) (any, error) {
	user, err := requireUser(r)
	if err != nil {
		return nil, err
	}
	return h.ports.Mutate.Update(r.Context(), user, httpkit.URLParam(r, "id"), evdom.EventUpdate{
		Title:               in.Title,
		Description:         in.Description,
		LocationDescription: in.LocationDescription,
		Time:                in.Time,
		Image:               in.Image,
		ExternalLink:        in.ExternalLink,
	})
}

func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	user, err := requireUser(r)
	if err != nil {
		return nil, err
	}
	if err := h.ports.Mutate.Delete(r.Context(), user, httpkit.URLParam(r, "id")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) attendees(r *stdhttp.Request) (any, error) {
	return h.ports.RSVP.Attendees(r.Context(), httpkit.URLParam(r, "id"))
}

func (h *handlers) addRSVP(r *stdhttp.Request) (any, error) {
	user, err := requireUser(r)
	if err != nil {
		return nil, err
	}
	added, err := h.ports.RSVP.AddRSVP(r.Context(), user, httpkit.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return map[string]bool{"added": added}, nil
}

func (h *handlers) removeRSVP(r *stdhttp.Request) (any, error) {
	user, err := requireUser(r)
	if err != nil {
		return nil, err
	}
	removed, err := h.ports.RSVP.RemoveRSVP(r.Context(), user, httpkit.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return map[string]bool{"removed": removed}, nil
}

func requireUser(r *stdhttp.Request) (string, error) {
	if user := pnet.UserID(r.Context()); user != "" {
		return user, nil
	}
	return "", perr.Forbiddenf("caller identity required")
}
