package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	"blockparty/internal/platform/testkit"
)

type fakePinger struct {
	err      error
	deadline bool
}

func (f *fakePinger) Ping(ctx context.Context) error {
	_, f.deadline = ctx.Deadline()
	return f.err
}

type fakeGuard struct{ err error }

func (f fakeGuard) Guard(context.Context) error { return f.err }

func TestMustPing_NilDependencyPanics(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() {
		MustPing(context.Background(), "pg", nil)
	})
}

func TestMustPing_SetsDeadlineWhenMissing(t *testing.T) {
	t.Parallel()

	fp := &fakePinger{}
	MustPing(context.Background(), "pg", fp)
	if !fp.deadline {
		t.Fatalf("expected a deadline to be set by MustPing")
	}
}

func TestMustPing_KeepsCallerDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fp := &fakePinger{}
	MustPing(ctx, "pg", fp)
	if !fp.deadline {
		t.Fatalf("caller deadline should be visible to Ping")
	}
}

func TestMustPing_ErrorPanics(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() {
		MustPing(context.Background(), "pg", &fakePinger{err: errors.New("boom")})
	})
}

func TestMustGuard(t *testing.T) {
	t.Parallel()

	testkit.MustNotPanic(t, func() {
		MustGuard(context.Background(), fakeGuard{})
	})
	testkit.MustPanic(t, func() {
		MustGuard(context.Background(), fakeGuard{err: errors.New("boom")})
	})
}
