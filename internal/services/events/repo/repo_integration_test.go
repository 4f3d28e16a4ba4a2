//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	perr "blockparty/internal/platform/errors"
	"blockparty/internal/platform/logger"
	"blockparty/internal/platform/store"
	"blockparty/internal/services/events/domain"
)

var schema = []string{`
create table if not exists events (
	id uuid primary key,
	title text not null,
	description text not null default '',
	location_description text not null default '',
	lat double precision,
	long double precision,
	time timestamptz,
	owner text not null default '',
	image text,
	external_link text,
	is_external boolean not null default false,
	created_at timestamptz not null default now()
)`, `
create table if not exists rsvps (
	user_id text not null,
	event_id uuid not null references events(id) on delete cascade,
	primary key (user_id, event_id)
)`}

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openStorage(t *testing.T, ctx context.Context, dsn string) (Storage, func()) {
	t.Helper()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(*logger.Get()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	for _, stmt := range schema {
		if _, err := st.PG.Exec(ctx, stmt); err != nil {
			_ = st.Close(ctx)
			t.Fatalf("schema setup: %v", err)
		}
	}
	return NewPG().Bind(st.PG), func() { _ = st.Close(ctx) }
}

func TestStorage_Roundtrip_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, closeStore := openStorage(t, ctx, dsn)
	defer closeStore()

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	lat, lng := 39.9526, -75.1652

	ev, err := s.Insert(ctx, domain.EventWrite{
		Title:               "Porchfest",
		Description:         "music on every porch",
		LocationDescription: "West Philadelphia",
		Lat:                 &lat,
		Long:                &lng,
		Time:                &when,
		Owner:               "alice",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ev.ID == "" || ev.CreatedAt.IsZero() {
		t.Fatalf("insert did not assign identity: %+v", ev)
	}

	got, err := s.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Porchfest" || got.Lat == nil || *got.Lat != lat {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Time == nil || !got.Time.Equal(when) {
		t.Fatalf("time mismatch: got %v want %v", got.Time, when)
	}

	// search is case-insensitive across title, description and location
	found, err := s.Search(ctx, "porch")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != ev.ID {
		t.Fatalf("search miss: %+v", found)
	}

	upd, err := s.Update(ctx, ev.ID, domain.EventUpdate{
		Title:               "Porchfest 2026",
		Description:         got.Description,
		LocationDescription: got.LocationDescription,
		Time:                got.Time,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Title != "Porchfest 2026" {
		t.Fatalf("update not applied: %+v", upd)
	}

	ok, err := s.Delete(ctx, ev.ID)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if _, err := s.GetByID(ctx, ev.ID); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestStorage_GetMissing_IsNotFound_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, closeStore := openStorage(t, ctx, dsn)
	defer closeStore()

	_, err := s.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStorage_ExternalExpiry_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, closeStore := openStorage(t, ctx, dsn)
	defer closeStore()

	past := time.Now().Add(-48 * time.Hour).UTC()
	future := time.Now().Add(48 * time.Hour).UTC()

	mustInsert := func(w domain.EventWrite) domain.Event {
		t.Helper()
		ev, err := s.Insert(ctx, w)
		if err != nil {
			t.Fatalf("insert %q: %v", w.Title, err)
		}
		return ev
	}

	mustInsert(domain.EventWrite{Title: "stale import", Time: &past, Owner: "SeatGeek", IsExternal: true})
	keptFuture := mustInsert(domain.EventWrite{Title: "upcoming import", Time: &future, Owner: "SeatGeek", IsExternal: true})
	keptUndated := mustInsert(domain.EventWrite{Title: "undated import", Owner: "Eventbrite", IsExternal: true})
	keptLocal := mustInsert(domain.EventWrite{Title: "old block party", Time: &past, Owner: "alice"})

	n, err := s.DeleteExternalBefore(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one expired row, got %d", n)
	}

	ext, err := s.ListExternal(ctx)
	if err != nil {
		t.Fatalf("list external: %v", err)
	}
	if len(ext) != 2 {
		t.Fatalf("expected 2 surviving external rows, got %d", len(ext))
	}
	// the locally owned past event is untouched
	if _, err := s.GetByID(ctx, keptLocal.ID); err != nil {
		t.Fatalf("local event should survive expiry: %v", err)
	}
	for _, ev := range ext {
		if ev.ID != keptFuture.ID && ev.ID != keptUndated.ID {
			t.Fatalf("unexpected survivor: %+v", ev)
		}
	}
}

func TestStorage_RSVP_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, closeStore := openStorage(t, ctx, dsn)
	defer closeStore()

	ev, err := s.Insert(ctx, domain.EventWrite{Title: "Cleanup day", Owner: "bob"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	added, err := s.AddRSVP(ctx, "carol", ev.ID)
	if err != nil || !added {
		t.Fatalf("first rsvp: added=%v err=%v", added, err)
	}
	again, err := s.AddRSVP(ctx, "carol", ev.ID)
	if err != nil {
		t.Fatalf("repeat rsvp: %v", err)
	}
	if again {
		t.Fatalf("repeat rsvp should be a no-op")
	}
	if _, err := s.AddRSVP(ctx, "dave", ev.ID); err != nil {
		t.Fatalf("second user rsvp: %v", err)
	}

	who, err := s.Attendees(ctx, ev.ID)
	if err != nil {
		t.Fatalf("attendees: %v", err)
	}
	if len(who) != 2 || who[0] != "carol" || who[1] != "dave" {
		t.Fatalf("unexpected attendees: %v", who)
	}

	removed, err := s.RemoveRSVP(ctx, "carol", ev.ID)
	if err != nil || !removed {
		t.Fatalf("remove rsvp: removed=%v err=%v", removed, err)
	}
	if removed, _ := s.RemoveRSVP(ctx, "carol", ev.ID); removed {
		t.Fatalf("second remove should be a no-op")
	}
}
