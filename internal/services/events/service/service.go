// Package service provides the events service implementation
package service

import (
	"context"
	"strings"
	"time"

	"blockparty/internal/modkit/repokit"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/services/events/domain"
	"blockparty/internal/services/events/repo"
)

// Service implements the events domain ports over the pg repo
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
}

// New constructs a new events service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	return &Service{DB: db, Binder: b}
}

// Insert implements domain.WriterPort
func (s *Service) Insert(ctx context.Context, w domain.EventWrite) (domain.Event, error) {
	if strings.TrimSpace(w.Title) == "" {
		return domain.Event{}, perr.InvalidArgf("title is required")
	}
	var ev domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		ev, err = s.Binder.Bind(q).Insert(ctx, w)
		return err
	})
	return ev, err
}

// Get implements domain.QueryPort
func (s *Service) Get(ctx context.Context, id string) (domain.Event, error) {
	var ev domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		ev, err = s.Binder.Bind(q).GetByID(ctx, id)
		return err
	})
	return ev, err
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context) ([]domain.Event, error) {
	var evs []domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		evs, err = s.Binder.Bind(q).ListAll(ctx)
		return err
	})
	return evs, err
}

// Search implements domain.QueryPort
func (s *Service) Search(ctx context.Context, query string) ([]domain.Event, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}
	var evs []domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		evs, err = s.Binder.Bind(q).Search(ctx, query)
		return err
	})
	return evs, err
}

// Update implements domain.MutatePort. Only the owner of a non-external
// event may edit it
func (s *Service) Update(ctx context.Context, owner, id string, u domain.EventUpdate) (domain.Event, error) {
	var ev domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		cur, err := st.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mayMutate(cur, owner); err != nil {
			return err
		}
		ev, err = st.Update(ctx, id, u)
		return err
	})
	return ev, err
}

// Delete implements domain.MutatePort
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		cur, err := st.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := mayMutate(cur, owner); err != nil {
			return err
		}
		ok, err := st.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return perr.NotFoundf("event %s not found", id)
		}
		return nil
	})
}

// ListExternal implements domain.ExternalPort
func (s *Service) ListExternal(ctx context.Context) ([]domain.Event, error) {
	var evs []domain.Event
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		evs, err = s.Binder.Bind(q).ListExternal(ctx)
		return err
	})
	return evs, err
}

// DeleteExternalBefore implements domain.ExternalPort
func (s *Service) DeleteExternalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.Binder.Bind(q).DeleteExternalBefore(ctx, cutoff)
		return err
	})
	return n, err
}

// AddRSVP implements domain.RSVPPort
func (s *Service) AddRSVP(ctx context.Context, userID, eventID string) (bool, error) {
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		if _, err := st.GetByID(ctx, eventID); err != nil {
			return err
		}
		var err error
		ok, err = st.AddRSVP(ctx, userID, eventID)
		return err
	})
	return ok, err
}

// RemoveRSVP implements domain.RSVPPort
func (s *Service) RemoveRSVP(ctx context.Context, userID, eventID string) (bool, error) {
	var ok bool
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		ok, err = s.Binder.Bind(q).RemoveRSVP(ctx, userID, eventID)
		return err
	})
	return ok, err
}

// Attendees implements domain.RSVPPort
func (s *Service) Attendees(ctx context.Context, eventID string) ([]string, error) {
	var out []string
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Attendees(ctx, eventID)
		return err
	})
	return out, err
}

func mayMutate(ev domain.Event, owner string) error {
	if ev.IsExternal {
		return perr.Forbiddenf("external events are read only")
	}
	if ev.Owner != owner {
		return perr.Forbiddenf("event %s does not belong to %s", ev.ID, owner)
	}
	return nil
}
