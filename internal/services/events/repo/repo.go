// Package repo provides the events repository implementation
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blockparty/internal/modkit/repokit"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/services/events/domain"
)

type binder struct{}

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the events repository
type Storage interface {
	Insert(ctx context.Context, w domain.EventWrite) (domain.Event, error)
	GetByID(ctx context.Context, id string) (domain.Event, error)
	ListAll(ctx context.Context) ([]domain.Event, error)
	Search(ctx context.Context, q string) ([]domain.Event, error)
	Update(ctx context.Context, id string, u domain.EventUpdate) (domain.Event, error)
	Delete(ctx context.Context, id string) (bool, error)

	ListExternal(ctx context.Context) ([]domain.Event, error)
	DeleteExternalBefore(ctx context.Context, cutoff time.Time) (int64, error)

	AddRSVP(ctx context.Context, userID, eventID string) (bool, error)
	RemoveRSVP(ctx context.Context, userID, eventID string) (bool, error)
	Attendees(ctx context.Context, eventID string) ([]string, error)
}

type pg struct{ q repokit.Queryer }

const eventCols = `
	id::text, title, description, location_description, lat, long,
	time, owner, image, external_link, is_external, created_at`

// Insert implements Storage. Identity is assigned here and nowhere else
func (s *pg) Insert(ctx context.Context, w domain.EventWrite) (domain.Event, error) {
	id := uuid.NewString()
	row := s.q.QueryRow(ctx, `
		INSERT INTO events
			(id, title, description, location_description, lat, long,
			time, owner, image, external_link, is_external)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+eventCols,
		id, w.Title, w.Description, w.LocationDescription, w.Lat, w.Long,
		w.Time, w.Owner, w.Image, w.ExternalLink, w.IsExternal,
	)
	ev, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, perr.FromPostgresf(err, "events insert failed")
	}
	return ev, nil
}

// GetByID implements Storage
func (s *pg) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.q.QueryRow(ctx, `SELECT `+eventCols+` FROM events WHERE id = $1`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, perr.NotFoundf("event %s not found", id)
	}
	if err != nil {
		return domain.Event{}, perr.FromPostgresf(err, "events get failed")
	}
	return ev, nil
}

// ListAll implements Storage, ordered soonest first
func (s *pg) ListAll(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.q.Query(ctx, `SELECT `+eventCols+` FROM events ORDER BY time ASC NULLS LAST, id`)
	if err != nil {
		return nil, perr.FromPostgresf(err, "events list failed")
	}
	return collectEvents(rows)
}

// Search implements Storage with a case-insensitive match over title,
// description, and location
func (s *pg) Search(ctx context.Context, q string) ([]domain.Event, error) {
	pat := "%" + q + "%"
	rows, err := s.q.Query(ctx, `
		SELECT `+eventCols+`
		FROM events
		WHERE title ILIKE $1 OR description ILIKE $1 OR location_description ILIKE $1
		ORDER BY time ASC NULLS LAST, id`, pat)
	if err != nil {
		return nil, perr.FromPostgresf(err, "events search failed")
	}
	return collectEvents(rows)
}

// Update implements Storage
func (s *pg) Update(ctx context.Context, id string, u domain.EventUpdate) (domain.Event, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE events
		SET title = $1, description = $2, location_description = $3,
			time = $4, image = $5, external_link = $6
		WHERE id = $7
		RETURNING `+eventCols,
		u.Title, u.Description, u.LocationDescription, u.Time, u.Image, u.ExternalLink, id,
	)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Event{}, perr.NotFoundf("event %s not found", id)
	}
	if err != nil {
		return domain.Event{}, perr.FromPostgresf(err, "events update failed")
	}
	return ev, nil
}

// Delete implements Storage
func (s *pg) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, perr.FromPostgresf(err, "events delete failed")
	}
	return tag.RowsAffected() > 0, nil
}

// ListExternal implements Storage
func (s *pg) ListExternal(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.q.Query(ctx, `SELECT `+eventCols+` FROM events WHERE is_external ORDER BY time ASC NULLS LAST, id`)
	if err != nil {
		return nil, perr.FromPostgresf(err, "events list external failed")
	}
	return collectEvents(rows)
}

// DeleteExternalBefore implements Storage.
// External rows with no timestamp are kept; expiry only applies to events
// that are provably in the past
func (s *pg) DeleteExternalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM events WHERE is_external AND time IS NOT NULL AND time < $1`, cutoff)
	if err != nil {
		return 0, perr.FromPostgresf(err, "events expire failed")
	}
	return tag.RowsAffected(), nil
}

// AddRSVP implements Storage, idempotent per (user, event)
func (s *pg) AddRSVP(ctx context.Context, userID, eventID string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		INSERT INTO rsvps (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING`, userID, eventID)
	if err != nil {
		return false, perr.FromPostgresf(err, "rsvp add failed")
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveRSVP implements Storage
func (s *pg) RemoveRSVP(ctx context.Context, userID, eventID string) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM rsvps WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return false, perr.FromPostgresf(err, "rsvp remove failed")
	}
	return tag.RowsAffected() > 0, nil
}

// Attendees implements Storage
func (s *pg) Attendees(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT user_id FROM rsvps WHERE event_id = $1 ORDER BY user_id`, eventID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "rsvp attendees failed")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

type scannable interface{ Scan(dest ...any) error }

func scanEvent(row scannable) (domain.Event, error) {
	var ev domain.Event
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.LocationDescription,
		&ev.Lat, &ev.Long, &ev.Time, &ev.Owner, &ev.Image, &ev.ExternalLink,
		&ev.IsExternal, &ev.CreatedAt,
	)
	return ev, err
}

func collectEvents(rows repokit.Rows) ([]domain.Event, error) {
	defer rows.Close()
	var out []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
