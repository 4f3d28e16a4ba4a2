package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string) (*Client, *[]time.Duration) {
	c := NewClient(Options{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		MaxRetries: 2,
		RetryBase:  10 * time.Millisecond,
	})
	var slept []time.Duration
	c.sleep = func(d time.Duration) { slept = append(slept, d) }
	return c, &slept
}

func TestLookup_Success(t *testing.T) {
	t.Parallel()

	var gotAddress, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":39.95,"lng":-75.16}}}]}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL)
	lat, lng, ok, err := c.Lookup(context.Background(), "123 Market St")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok || lat != 39.95 || lng != -75.16 {
		t.Fatalf("got (%v, %v, ok=%v)", lat, lng, ok)
	}
	if gotAddress != "123 Market St" || gotKey != "test-key" {
		t.Fatalf("query params address=%q key=%q", gotAddress, gotKey)
	}
}

func TestLookup_ZeroResultsIsAMissNotAnError(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL)
	_, _, ok, err := c.Lookup(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for ZERO_RESULTS")
	}
	if atomic.LoadInt32(&hits) != 1 || len(*slept) != 0 {
		t.Fatalf("miss should not retry: hits=%d slept=%v", hits, *slept)
	}
}

func TestLookup_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":1,"lng":2}}}]}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL)
	lat, lng, ok, err := c.Lookup(context.Background(), "flaky")
	if err != nil || !ok {
		t.Fatalf("expected success after retry, got ok=%v err=%v", ok, err)
	}
	if lat != 1 || lng != 2 {
		t.Fatalf("got (%v, %v)", lat, lng)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 requests, got %d", hits)
	}
	if len(*slept) != 1 || (*slept)[0] != 10*time.Millisecond {
		t.Fatalf("expected one base backoff, got %v", *slept)
	}
}

func TestLookup_TransientExhaustsRetries(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL)
	_, _, ok, err := c.Lookup(context.Background(), "down")
	if err == nil || ok {
		t.Fatalf("expected error after exhausting retries, got ok=%v err=%v", ok, err)
	}
	// MaxRetries=2 means the initial attempt plus two retries
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 requests, got %d", hits)
	}
	// backoff doubles per attempt
	if len(*slept) != 2 || (*slept)[0] != 10*time.Millisecond || (*slept)[1] != 20*time.Millisecond {
		t.Fatalf("unexpected backoff schedule %v", *slept)
	}
}

func TestLookup_UnexpectedStatusFailsImmediately(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, slept := newTestClient(srv.URL)
	_, _, _, err := c.Lookup(context.Background(), "denied")
	if err == nil {
		t.Fatal("expected error for unexpected status")
	}
	if atomic.LoadInt32(&hits) != 1 || len(*slept) != 0 {
		t.Fatalf("4xx should not retry: hits=%d slept=%v", hits, *slept)
	}
}
