package service

import (
	"context"
	"testing"
	"time"

	"blockparty/internal/modkit/repokit"
	perr "blockparty/internal/platform/errors"
	"blockparty/internal/services/events/domain"
	"blockparty/internal/services/events/repo"
)

// fakeTx satisfies repokit.TxRunner without a database
type fakeTx struct{}

func (fakeTx) Tx(_ context.Context, fn func(repokit.Queryer) error) error { return fn(nil) }

func (fakeTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	panic("not implemented")
}
func (fakeTx) Query(context.Context, string, ...any) (repokit.Rows, error) {
	panic("not implemented")
}
func (fakeTx) QueryRow(context.Context, string, ...any) repokit.Row {
	panic("not implemented")
}

// fakeStorage implements repo.Storage in memory
type fakeStorage struct {
	events  map[string]domain.Event
	deleted []string
}

func newFakeStorage(evs ...domain.Event) *fakeStorage {
	m := make(map[string]domain.Event, len(evs))
	for _, ev := range evs {
		m[ev.ID] = ev
	}
	return &fakeStorage{events: m}
}

func (f *fakeStorage) bind() repokit.Binder[repo.Storage] {
	return repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return f })
}

func (f *fakeStorage) Insert(_ context.Context, w domain.EventWrite) (domain.Event, error) {
	ev := domain.Event{ID: "new", Title: w.Title, Owner: w.Owner, IsExternal: w.IsExternal}
	f.events[ev.ID] = ev
	return ev, nil
}

func (f *fakeStorage) GetByID(_ context.Context, id string) (domain.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return domain.Event{}, perr.NotFoundf("event %s not found", id)
	}
	return ev, nil
}

func (f *fakeStorage) ListAll(_ context.Context) ([]domain.Event, error)       { return nil, nil }
func (f *fakeStorage) Search(_ context.Context, _ string) ([]domain.Event, error) { return nil, nil }

func (f *fakeStorage) Update(_ context.Context, id string, u domain.EventUpdate) (domain.Event, error) {
	ev := f.events[id]
	ev.Title = u.Title
	f.events[id] = ev
	return ev, nil
}

func (f *fakeStorage) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.events[id]; !ok {
		return false, nil
	}
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

func (f *fakeStorage) ListExternal(_ context.Context) ([]domain.Event, error) { return nil, nil }
func (f *fakeStorage) DeleteExternalBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeStorage) AddRSVP(_ context.Context, _, _ string) (bool, error)    { return true, nil }
func (f *fakeStorage) RemoveRSVP(_ context.Context, _, _ string) (bool, error) { return true, nil }
func (f *fakeStorage) Attendees(_ context.Context, _ string) ([]string, error) { return nil, nil }

func svcWith(f *fakeStorage) *Service { return New(fakeTx{}, f.bind()) }

func TestInsert_RequiresTitle(t *testing.T) {
	t.Parallel()

	s := svcWith(newFakeStorage())
	_, err := s.Insert(context.Background(), domain.EventWrite{Title: "   "})
	if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestUpdate_OwnershipChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event domain.Event
		owner string
		code  perr.ErrorCode
	}{
		{
			name:  "owner may edit",
			event: domain.Event{ID: "e1", Owner: "alice"},
			owner: "alice",
		},
		{
			name:  "stranger forbidden",
			event: domain.Event{ID: "e1", Owner: "alice"},
			owner: "mallory",
			code:  perr.ErrorCodeForbidden,
		},
		{
			name:  "external read only even for its tag owner",
			event: domain.Event{ID: "e1", Owner: "SeatGeek", IsExternal: true},
			owner: "SeatGeek",
			code:  perr.ErrorCodeForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := svcWith(newFakeStorage(tc.event))
			_, err := s.Update(context.Background(), tc.owner, "e1", domain.EventUpdate{Title: "edited"})
			if tc.code == 0 {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if perr.CodeOf(err) != tc.code {
				t.Fatalf("err = %v, want code %v", err, tc.code)
			}
		})
	}
}

func TestDelete_OwnershipAndMissing(t *testing.T) {
	t.Parallel()

	f := newFakeStorage(domain.Event{ID: "mine", Owner: "alice"})
	s := svcWith(f)

	if err := s.Delete(context.Background(), "mallory", "mine"); perr.CodeOf(err) != perr.ErrorCodeForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if err := s.Delete(context.Background(), "alice", "mine"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := s.Delete(context.Background(), "alice", "gone"); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAddRSVP_MissingEvent(t *testing.T) {
	t.Parallel()

	s := svcWith(newFakeStorage())
	_, err := s.AddRSVP(context.Background(), "u1", "nope")
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
