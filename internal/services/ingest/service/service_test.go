package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	evdom "blockparty/internal/services/events/domain"
	"blockparty/internal/services/ingest/domain"
)

// fakeGateway implements the events Writer and External ports in memory
type fakeGateway struct {
	mu       sync.Mutex
	next     int
	events   []evdom.Event
	failWith error
}

func (g *fakeGateway) Insert(_ context.Context, w evdom.EventWrite) (evdom.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return evdom.Event{}, g.failWith
	}
	g.next++
	ev := evdom.Event{
		ID:                  string(rune('a' + g.next)),
		Title:               w.Title,
		LocationDescription: w.LocationDescription,
		Time:                w.Time,
		Owner:               w.Owner,
		IsExternal:          w.IsExternal,
	}
	g.events = append(g.events, ev)
	return ev, nil
}

func (g *fakeGateway) ListExternal(_ context.Context) ([]evdom.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]evdom.Event, len(g.events))
	copy(out, g.events)
	return out, nil
}

func (g *fakeGateway) DeleteExternalBefore(_ context.Context, cutoff time.Time) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var kept []evdom.Event
	var n int64
	for _, ev := range g.events {
		if ev.IsExternal && ev.Time != nil && ev.Time.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, ev)
	}
	g.events = kept
	return n, nil
}

type fakeFetcher struct {
	name  string
	cands []domain.Candidate
	err   error
	panic bool
	block chan struct{}
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	if f.block != nil {
		<-f.block
	}
	if f.panic {
		panic("fetcher exploded")
	}
	return f.cands, f.err
}

func ts(h int) *time.Time {
	// anchor fixtures a day in the future so the expiry pass never removes them
	t := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(24+h) * time.Hour)
	return &t
}

func cand(title, loc, owner string, when *time.Time) domain.Candidate {
	return domain.Candidate{Title: title, LocationDescription: loc, Owner: owner, Time: when}
}

func TestRun_AllSettle(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	s := New(gw, gw, []domain.Fetcher{
		&fakeFetcher{name: "api", cands: []domain.Candidate{
			cand("One", "Venue A", "SeatGeek", ts(10)),
			cand("Two", "Venue B", "SeatGeek", ts(11)),
		}},
		&fakeFetcher{name: "static", cands: []domain.Candidate{
			cand("Three", "Venue C", "Visit Philadelphia", ts(12)),
			cand("Four", "Venue D", "Visit Philadelphia", ts(13)),
		}},
		&fakeFetcher{name: "dynamic", err: errors.New("render timeout")},
	}, Config{})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 4 || res.Saved != 4 {
		t.Fatalf("result %+v, want Saved=4 Total=4", res)
	}
	if len(gw.events) != 4 {
		t.Fatalf("stored %d events", len(gw.events))
	}
	for _, ev := range gw.events {
		if !ev.IsExternal {
			t.Fatalf("event %+v not flagged external", ev)
		}
	}
}

func TestRun_PanickingFetcherIsAbsorbed(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	s := New(gw, gw, []domain.Fetcher{
		&fakeFetcher{name: "bad", panic: true},
		&fakeFetcher{name: "good", cands: []domain.Candidate{cand("Ok", "Loc", "X", ts(9))}},
	}, Config{})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Saved != 1 || res.Total != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestRun_DedupWindow(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	base := cand("Night Market", "Passyunk Ave", "Visit Philadelphia", ts(12))

	s := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{base}}}, Config{})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// 23h away duplicates, 25h away does not
	within := base
	within.Time = func() *time.Time { t := ts(12).Add(23 * time.Hour); return &t }()
	outside := base
	outside.Time = func() *time.Time { t := ts(12).Add(25 * time.Hour); return &t }()

	s2 := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{within, outside}}}, Config{})
	res, err := s2.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 || res.Saved != 1 {
		t.Fatalf("result %+v, want Saved=1 Total=2", res)
	}
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	cands := []domain.Candidate{
		cand("One", "A", "SeatGeek", ts(10)),
		cand("Two", "B", "SeatGeek", ts(11)),
	}
	mk := func() *Service {
		return New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: cands}}, Config{})
	}

	if res, err := mk().Run(context.Background()); err != nil || res.Saved != 2 {
		t.Fatalf("first run res=%+v err=%v", res, err)
	}
	res, err := mk().Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Saved != 0 || res.Total != 2 {
		t.Fatalf("second run %+v, want Saved=0 Total=2", res)
	}
}

func TestRun_TitleCaseFoldDedup(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	first := cand("Jazz  Fest", "Clark Park", "Eventbrite", ts(15))
	s := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{first}}}, Config{})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	again := cand("JAZZ FEST", "clark park", "Eventbrite", ts(15))
	s2 := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{again}}}, Config{})
	res, err := s2.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Saved != 0 {
		t.Fatalf("folded duplicate was saved: %+v", res)
	}
}

func TestRun_UnusableCandidatesDropped(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	s := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{
		{Owner: "X"},                            // no time, no title, no location
		{Owner: "X", Title: "Named"},            // no time, no location
		cand("Kept", "Somewhere", "X", nil),     // no time but identified
		cand("Also Kept", "Else", "X", ts(18)), // timed
	}}}, Config{})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 4 || res.Saved != 2 {
		t.Fatalf("result %+v, want Saved=2 Total=4", res)
	}
}

func TestRun_InsertFailureContinues(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{failWith: errors.New("constraint violation")}
	s := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "a", cands: []domain.Candidate{
		cand("One", "A", "X", ts(10)),
		cand("Two", "B", "X", ts(11)),
	}}}, Config{})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Saved != 0 || res.Total != 2 {
		t.Fatalf("result %+v, want Saved=0 Total=2", res)
	}
}

func TestRun_ReentrancyGuard(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	gate := make(chan struct{})
	s := New(gw, gw, []domain.Fetcher{&fakeFetcher{name: "slow", block: gate}}, Config{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background())
		done <- err
	}()

	// wait for the first run to take the in-flight flag
	for !s.inFlight.Load() {
		time.Sleep(time.Millisecond)
	}

	if _, err := s.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("overlapping run err = %v, want ErrRunInProgress", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// the flag is released so a fresh run goes through
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("follow-up run failed: %v", err)
	}
}

func TestRun_ExpiresPastExternalOnly(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)
	gw.events = []evdom.Event{
		{ID: "old", Title: "Old", Time: &past, Owner: "X", IsExternal: true},
		{ID: "new", Title: "New", Time: &future, Owner: "X", IsExternal: true},
		{ID: "mine", Title: "Mine", Time: &past, Owner: "alice", IsExternal: false},
	}

	s := New(gw, gw, nil, Config{})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	ids := map[string]bool{}
	for _, ev := range gw.events {
		ids[ev.ID] = true
	}
	if ids["old"] {
		t.Fatal("past external event survived expiry")
	}
	if !ids["new"] || !ids["mine"] {
		t.Fatalf("expiry removed too much: %v", ids)
	}
}
